// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file declares the closed tool catalog. The dispatcher rejects any
// tool name outside this set before touching the graph, and the planner
// prompt is generated from these specs so the catalog text can never drift
// from the implementation.
package tools

// Tool names. The set is closed; adding a tool means adding it here, to the
// spec table below, and to the dispatcher switch.
const (
	ToolResolveDrugs         = "resolve_drugs"
	ToolResolveGenes         = "resolve_genes"
	ToolResolveDiseases      = "resolve_diseases"
	ToolResolveAdverseEvents = "resolve_adverse_events"

	ToolGetDrugTargets     = "get_drug_targets"
	ToolGetGenePathways    = "get_gene_pathways"
	ToolGetGeneDiseases    = "get_gene_diseases"
	ToolGetDiseaseGenes    = "get_disease_genes"
	ToolGetGeneInteractors = "get_gene_interactors"
	ToolExpandMechanism    = "expand_mechanism"
	ToolExpandGeneContext  = "expand_gene_context"

	ToolGetDrugAdverseEvents = "get_drug_adverse_events"
	ToolGetDrugLabelSections = "get_drug_label_sections"
	ToolGetDrugFAERSSignals  = "get_drug_faers_signals"
	ToolGetDrugProfile       = "get_drug_profile"

	ToolGetClaimEvidence = "get_claim_evidence"
	ToolGetEntityClaims  = "get_entity_claims"

	ToolFindDrugToAEPaths = "find_drug_to_ae_paths"
	ToolExplainPaths      = "explain_paths"

	ToolBuildSubgraph = "build_subgraph"
	ToolScoreEdges    = "score_edges"
)

// ParamKind enumerates the argument types the dispatcher can coerce.
type ParamKind string

const (
	ParamString     ParamKind = "string"
	ParamInt        ParamKind = "int"
	ParamFloat      ParamKind = "float"
	ParamBool       ParamKind = "bool"
	ParamStringList ParamKind = "string_list"
	ParamIntList    ParamKind = "int_list"
	ParamObject     ParamKind = "object"
)

// ParamSpec declares one tool parameter.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
	Doc      string
}

// ToolSpec declares one catalog tool: its parameters and the one-line
// description the planner prompt shows.
type ToolSpec struct {
	Name   string
	Doc    string
	Params []ParamSpec
}

// catalog is the single source of truth for the closed tool set.
var catalog = []ToolSpec{
	{
		Name: ToolResolveDrugs,
		Doc:  "Resolve drug names to graph keys. Always resolve before traversal.",
		Params: []ParamSpec{
			{Name: "names", Kind: ParamStringList, Required: true, Doc: "drug names or external IDs"},
		},
	},
	{
		Name: ToolResolveGenes,
		Doc:  "Resolve gene symbols or nomenclature IDs to graph keys.",
		Params: []ParamSpec{
			{Name: "symbols", Kind: ParamStringList, Required: true, Doc: "gene symbols or HGNC IDs"},
		},
	},
	{
		Name: ToolResolveDiseases,
		Doc:  "Resolve disease names or ontology IDs to graph keys.",
		Params: []ParamSpec{
			{Name: "terms", Kind: ParamStringList, Required: true, Doc: "disease labels or ontology IDs"},
		},
	},
	{
		Name: ToolResolveAdverseEvents,
		Doc:  "Resolve adverse event terms or MedDRA codes to graph keys.",
		Params: []ParamSpec{
			{Name: "terms", Kind: ParamStringList, Required: true, Doc: "adverse event labels or codes"},
		},
	},
	{
		Name: ToolGetDrugTargets,
		Doc:  "List the genes a drug targets, with claim provenance.",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
		},
	},
	{
		Name: ToolGetGenePathways,
		Doc:  "List the pathways a gene participates in.",
		Params: []ParamSpec{
			{Name: "gene_key", Kind: ParamInt, Required: true, Doc: "resolved gene key"},
		},
	},
	{
		Name: ToolGetGeneDiseases,
		Doc:  "List diseases associated with a gene, strongest first.",
		Params: []ParamSpec{
			{Name: "gene_key", Kind: ParamInt, Required: true, Doc: "resolved gene key"},
			{Name: "min_score", Kind: ParamFloat, Required: false, Doc: "minimum association strength"},
		},
	},
	{
		Name: ToolGetDiseaseGenes,
		Doc:  "List genes associated with a disease.",
		Params: []ParamSpec{
			{Name: "disease_key", Kind: ParamInt, Required: true, Doc: "resolved disease key"},
			{Name: "sources", Kind: ParamStringList, Required: false, Doc: "restrict to these dataset IDs"},
			{Name: "min_score", Kind: ParamFloat, Required: false, Doc: "minimum association strength"},
			{Name: "limit", Kind: ParamInt, Required: false, Doc: "maximum rows"},
		},
	},
	{
		Name: ToolGetGeneInteractors,
		Doc:  "List protein interaction partners of a gene.",
		Params: []ParamSpec{
			{Name: "gene_key", Kind: ParamInt, Required: true, Doc: "resolved gene key"},
			{Name: "min_score", Kind: ParamFloat, Required: false, Doc: "minimum interaction score"},
			{Name: "limit", Kind: ParamInt, Required: false, Doc: "maximum rows"},
		},
	},
	{
		Name: ToolExpandMechanism,
		Doc:  "One call: a drug's targets plus every pathway of those targets.",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
		},
	},
	{
		Name: ToolExpandGeneContext,
		Doc:  "Per-gene pathways and disease associations for a list of genes.",
		Params: []ParamSpec{
			{Name: "gene_keys", Kind: ParamIntList, Required: true, Doc: "resolved gene keys"},
			{Name: "min_disease_score", Kind: ParamFloat, Required: false, Doc: "minimum disease association strength"},
		},
	},
	{
		Name: ToolGetDrugAdverseEvents,
		Doc:  "Known adverse events of a drug, highest frequency first.",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
			{Name: "min_frequency", Kind: ParamFloat, Required: false, Doc: "minimum reported frequency"},
			{Name: "limit", Kind: ParamInt, Required: false, Doc: "maximum rows"},
		},
	},
	{
		Name: ToolGetDrugLabelSections,
		Doc:  "Product label text sections (warnings, adverse_reactions, ...).",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
			{Name: "sections", Kind: ParamStringList, Required: false, Doc: "section names; empty means all"},
		},
	},
	{
		Name: ToolGetDrugFAERSSignals,
		Doc:  "FAERS disproportionality signals (PRR, ROR, chi-squared, counts).",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
			{Name: "top_k", Kind: ParamInt, Required: false, Doc: "keep the k strongest signals"},
			{Name: "min_count", Kind: ParamInt, Required: false, Doc: "minimum case count"},
			{Name: "min_prr", Kind: ParamFloat, Required: false, Doc: "minimum PRR"},
		},
	},
	{
		Name: ToolGetDrugProfile,
		Doc:  "Drug overview: identifiers, targets, top adverse events.",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
		},
	},
	{
		Name: ToolGetClaimEvidence,
		Doc:  "A claim plus every evidence record supporting it.",
		Params: []ParamSpec{
			{Name: "claim_key", Kind: ParamInt, Required: true, Doc: "claim key from a prior result"},
		},
	},
	{
		Name: ToolGetEntityClaims,
		Doc:  "Claims attached to an entity, optionally filtered by predicate.",
		Params: []ParamSpec{
			{Name: "entity_kind", Kind: ParamString, Required: true, Doc: "drug, gene, disease, or adverse_event"},
			{Name: "entity_key", Kind: ParamInt, Required: true, Doc: "resolved entity key"},
			{Name: "claim_types", Kind: ParamStringList, Required: false, Doc: "restrict to these predicates"},
			{Name: "limit", Kind: ParamInt, Required: false, Doc: "maximum rows"},
		},
	},
	{
		Name: ToolFindDrugToAEPaths,
		Doc:  "Enumerate and score mechanistic paths from a drug toward an adverse event.",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
			{Name: "ae_key", Kind: ParamInt, Required: false, Doc: "resolved adverse event key; omit for all"},
			{Name: "max_paths", Kind: ParamInt, Required: false, Doc: "maximum paths returned"},
		},
	},
	{
		Name: ToolExplainPaths,
		Doc:  "Path finding with patient-condition context boosting.",
		Params: []ParamSpec{
			{Name: "drug_key", Kind: ParamInt, Required: true, Doc: "resolved drug key"},
			{Name: "ae_key", Kind: ParamInt, Required: false, Doc: "resolved adverse event key"},
			{Name: "condition_keys", Kind: ParamIntList, Required: false, Doc: "patient condition disease keys"},
			{Name: "top_k", Kind: ParamInt, Required: false, Doc: "keep the k best paths"},
		},
	},
	{
		Name: ToolBuildSubgraph,
		Doc:  "Assemble a bounded subgraph around drugs for visualization.",
		Params: []ParamSpec{
			{Name: "drug_keys", Kind: ParamIntList, Required: true, Doc: "resolved drug keys"},
			{Name: "include_targets", Kind: ParamBool, Required: false, Doc: "include TARGETS edges (default true)"},
			{Name: "include_pathways", Kind: ParamBool, Required: false, Doc: "include IN_PATHWAY edges"},
			{Name: "include_diseases", Kind: ParamBool, Required: false, Doc: "include disease associations"},
			{Name: "include_adverse_events", Kind: ParamBool, Required: false, Doc: "include adverse event edges"},
			{Name: "max_per_category", Kind: ParamInt, Required: false, Doc: "cap per edge category per drug"},
			{Name: "min_disease_score", Kind: ParamFloat, Required: false, Doc: "minimum disease association strength"},
		},
	},
	{
		Name: ToolScoreEdges,
		Doc:  "Annotate a subgraph's edges with category weights.",
		Params: []ParamSpec{
			{Name: "subgraph", Kind: ParamObject, Required: true, Doc: "subgraph from build_subgraph"},
			{Name: "weights", Kind: ParamObject, Required: false, Doc: "predicate to weight overrides"},
		},
	},
}

// specIndex maps tool name to spec for O(1) dispatcher lookups.
var specIndex = func() map[string]*ToolSpec {
	idx := make(map[string]*ToolSpec, len(catalog))
	for i := range catalog {
		idx[catalog[i].Name] = &catalog[i]
	}
	return idx
}()

// Catalog returns the full tool catalog in declaration order.
func Catalog() []ToolSpec {
	return catalog
}

// Lookup returns the spec for a tool name, or nil when the name is outside
// the closed set.
func Lookup(name string) *ToolSpec {
	return specIndex[name]
}
