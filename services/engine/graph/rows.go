// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the row types the gateway scans query results into.
// Field tags follow the column names of the kg schema; nullable columns use
// pointer types so absent values survive JSON round-trips as null.
package graph

// =============================================================================
// Entity rows
// =============================================================================

// DrugRow is a row of kg.drug. Here and below, the human-readable label
// field is declared before the surrogate key: JSON rendered from these
// structs keeps declaration order, and the observer prompt wants names
// ahead of keys.
type DrugRow struct {
	PreferredName string  `db:"preferred_name" json:"preferred_name"`
	DrugKey       int64   `db:"drug_key" json:"drug_key"`
	ChemblID      *string `db:"chembl_id" json:"chembl_id,omitempty"`
	DrugcentralID *string `db:"drugcentral_id" json:"drugcentral_id,omitempty"`
	InchiKey      *string `db:"inchikey" json:"inchikey,omitempty"`
}

// GeneRow is a row of kg.gene.
type GeneRow struct {
	Symbol  string  `db:"symbol" json:"symbol"`
	GeneKey int64   `db:"gene_key" json:"gene_key"`
	HGNCID  *string `db:"hgnc_id" json:"hgnc_id,omitempty"`
	Name    *string `db:"name" json:"name,omitempty"`
}

// DiseaseRow is a row of kg.disease.
type DiseaseRow struct {
	Label      string  `db:"label" json:"label"`
	DiseaseKey int64   `db:"disease_key" json:"disease_key"`
	OntologyID *string `db:"ontology_id" json:"ontology_id,omitempty"`
}

// PathwayRow is a row of kg.pathway.
type PathwayRow struct {
	Name       string  `db:"name" json:"name"`
	PathwayKey int64   `db:"pathway_key" json:"pathway_key"`
	ReactomeID *string `db:"reactome_id" json:"reactome_id,omitempty"`
}

// AdverseEventRow is a row of kg.adverse_event.
type AdverseEventRow struct {
	Label      string  `db:"label" json:"label"`
	AEKey      int64   `db:"ae_key" json:"ae_key"`
	MeddraCode *string `db:"meddra_code" json:"meddra_code,omitempty"`
}

// =============================================================================
// Claim and evidence rows
// =============================================================================

// ClaimRow is a row of kg.claim.
type ClaimRow struct {
	ClaimKey  int64    `db:"claim_key" json:"claim_key"`
	Predicate string   `db:"predicate" json:"predicate"`
	Strength  *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID string   `db:"dataset_id" json:"dataset_id"`
}

// EvidenceRow is a row of kg.evidence. Payload carries the raw source record
// as JSON; it never leaves the gateway un-summarized.
type EvidenceRow struct {
	EvidenceKey    int64   `db:"evidence_key" json:"evidence_key"`
	ClaimKey       int64   `db:"claim_key" json:"claim_key"`
	DatasetID      string  `db:"dataset_id" json:"dataset_id"`
	SourceRecordID *string `db:"source_record_id" json:"source_record_id,omitempty"`
	Payload        []byte  `db:"payload" json:"-"`
}

// =============================================================================
// Relationship rows
// =============================================================================

// TargetRow joins a drug's TARGETS claims to the target gene.
type TargetRow struct {
	Symbol    string   `db:"symbol" json:"symbol"`
	GeneKey   int64    `db:"gene_key" json:"gene_key"`
	ClaimKey  int64    `db:"claim_key" json:"claim_key"`
	Predicate string   `db:"predicate" json:"predicate"`
	Strength  *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID string   `db:"dataset_id" json:"dataset_id"`
}

// GenePathwayRow joins a gene's IN_PATHWAY claims to the pathway.
type GenePathwayRow struct {
	Name       string `db:"name" json:"name"`
	PathwayKey int64  `db:"pathway_key" json:"pathway_key"`
	ClaimKey   int64  `db:"claim_key" json:"claim_key"`
	DatasetID  string `db:"dataset_id" json:"dataset_id"`
}

// GeneDiseaseRow joins a gene's ASSOCIATED_WITH claims to the disease.
type GeneDiseaseRow struct {
	Label      string   `db:"label" json:"label"`
	DiseaseKey int64    `db:"disease_key" json:"disease_key"`
	ClaimKey   int64    `db:"claim_key" json:"claim_key"`
	Strength   *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID  string   `db:"dataset_id" json:"dataset_id"`
}

// DiseaseGeneRow is the reverse direction of GeneDiseaseRow.
type DiseaseGeneRow struct {
	Symbol    string   `db:"symbol" json:"symbol"`
	GeneKey   int64    `db:"gene_key" json:"gene_key"`
	ClaimKey  int64    `db:"claim_key" json:"claim_key"`
	Strength  *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID string   `db:"dataset_id" json:"dataset_id"`
}

// InteractorRow joins a gene's INTERACTS_WITH claims to the partner gene.
type InteractorRow struct {
	Symbol    string   `db:"symbol" json:"symbol"`
	GeneKey   int64    `db:"gene_key" json:"gene_key"`
	ClaimKey  int64    `db:"claim_key" json:"claim_key"`
	Strength  *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID string   `db:"dataset_id" json:"dataset_id"`
}

// DrugAdverseEventRow joins a drug's CAUSES/ASSOCIATED_WITH claims to the
// adverse event.
type DrugAdverseEventRow struct {
	Label     string   `db:"label" json:"label"`
	AEKey     int64    `db:"ae_key" json:"ae_key"`
	ClaimKey  int64    `db:"claim_key" json:"claim_key"`
	Predicate string   `db:"predicate" json:"predicate"`
	Strength  *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID string   `db:"dataset_id" json:"dataset_id"`
}

// LabelSectionRow is a row of kg.label_section.
type LabelSectionRow struct {
	DrugKey int64  `db:"drug_key" json:"drug_key"`
	Section string `db:"section" json:"section"`
	Body    string `db:"body" json:"body"`
	Source  string `db:"source" json:"source"`
}

// FAERSSignalRow is a row of kg.faers_signal.
type FAERSSignalRow struct {
	AELabel      string   `db:"ae_label" json:"ae_label"`
	AEKey        int64    `db:"ae_key" json:"ae_key"`
	DrugKey      int64    `db:"drug_key" json:"drug_key"`
	PRR          *float64 `db:"prr" json:"prr,omitempty"`
	ROR          *float64 `db:"ror" json:"ror,omitempty"`
	Chi2         *float64 `db:"chi2" json:"chi2,omitempty"`
	CaseCount    int64    `db:"case_count" json:"case_count"`
	ReportPeriod *string  `db:"report_period" json:"report_period,omitempty"`
}

// =============================================================================
// Path and edge rows
// =============================================================================

// TwoHopRow is one drug -> gene -> context (pathway or disease) traversal.
// HeadStrength belongs to the drug->gene claim, TailStrength to the
// gene->context claim.
type TwoHopRow struct {
	GeneSymbol   string   `db:"gene_symbol" json:"gene_symbol"`
	GeneKey      int64    `db:"gene_key" json:"gene_key"`
	ContextLabel string   `db:"context_label" json:"context_label"`
	ContextKey   int64    `db:"context_key" json:"context_key"`
	HeadClaim    int64    `db:"head_claim" json:"head_claim"`
	HeadStrength *float64 `db:"head_strength" json:"head_strength,omitempty"`
	HeadDataset  string   `db:"head_dataset" json:"head_dataset"`
	TailClaim    int64    `db:"tail_claim" json:"tail_claim"`
	TailStrength *float64 `db:"tail_strength" json:"tail_strength,omitempty"`
	TailDataset  string   `db:"tail_dataset" json:"tail_dataset"`
	TailEdge     string   `db:"tail_edge" json:"tail_edge"`
}

// EdgeRow is one materialized edge touching an entity, in either direction.
// Used by the subgraph builder and the edge scorer.
type EdgeRow struct {
	SrcKind   string   `db:"src_kind" json:"src_kind"`
	SrcLabel  string   `db:"src_label" json:"src_label"`
	SrcKey    int64    `db:"src_key" json:"src_key"`
	Predicate string   `db:"predicate" json:"predicate"`
	DstKind   string   `db:"dst_kind" json:"dst_kind"`
	DstLabel  string   `db:"dst_label" json:"dst_label"`
	DstKey    int64    `db:"dst_key" json:"dst_key"`
	ClaimKey  int64    `db:"claim_key" json:"claim_key"`
	Strength  *float64 `db:"strength" json:"strength,omitempty"`
	DatasetID string   `db:"dataset_id" json:"dataset_id"`
}
