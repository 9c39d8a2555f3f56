// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph is the read-only gateway to the pharmacovigilance knowledge
// graph in Postgres.
//
// # Description
//
// All SQL lives here. The tool layer above never sees a *sqlx.DB, only typed
// row slices, so tool behavior stays testable with a fake store. The gateway
// issues SELECTs only; nothing in the engine ever writes to the graph.
//
// # Thread Safety
//
// Gateway is safe for concurrent use; it owns a pooled *sqlx.DB.
package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/config"
)

// identRe restricts schema names to plain identifiers so they can be inlined
// into query text.
var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// requiredRelations are the relations Probe checks. kg.edge is a view the
// loader maintains over has_claim and the claim_* link tables.
var requiredRelations = []string{
	"drug", "gene", "disease", "pathway", "adverse_event",
	"claim", "evidence", "dataset",
	"has_claim", "claim_gene", "claim_disease", "claim_pathway",
	"claim_adverse_event",
	"faers_signal", "label_section", "edge",
}

// =============================================================================
// Gateway
// =============================================================================

// Gateway executes typed read queries against the knowledge graph.
type Gateway struct {
	db     *sqlx.DB
	log    *logging.Logger
	schema string
}

// New opens a connection pool against the configured Postgres instance.
// It does not probe; call Probe before serving queries.
func New(cfg config.GraphConfig, log *logging.Logger) (*Gateway, error) {
	if !identRe.MatchString(cfg.Schema) {
		return nil, fmt.Errorf("invalid schema name %q", cfg.Schema)
	}
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, unavailable("open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return &Gateway{db: db, log: log, schema: cfg.Schema}, nil
}

// NewFromDB wraps an existing *sql.DB. Used by tests.
func NewFromDB(db *sql.DB, schema string, log *logging.Logger) *Gateway {
	return &Gateway{db: sqlx.NewDb(db, "pgx"), log: log, schema: schema}
}

// Close releases the connection pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// rel qualifies a relation name with the configured schema.
func (g *Gateway) rel(name string) string {
	return g.schema + "." + name
}

// Probe verifies connectivity and that every required relation exists.
//
// # Outputs
//
//   - error: ErrUnavailable if the store is unreachable, ErrSchemaMismatch
//     naming the first missing relation, nil when the schema checks out.
func (g *Gateway) Probe(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	for _, name := range requiredRelations {
		q := fmt.Sprintf("SELECT * FROM %s LIMIT 0", g.rel(name))
		if _, err := g.db.QueryContext(ctx, q); err != nil {
			return schemaMismatch(g.rel(name), err)
		}
	}
	g.log.Info("graph schema probe passed", "schema", g.schema, "relations", len(requiredRelations))
	return nil
}

// selectRows runs a query into dest, mapping driver failures to
// graph.unavailable.
func selectRows[T any](ctx context.Context, g *Gateway, op, query string, args ...any) ([]T, error) {
	var rows []T
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, unavailable(op, err)
	}
	return rows, nil
}

// =============================================================================
// Drug lookups
// =============================================================================

func (g *Gateway) DrugExact(ctx context.Context, name string) ([]DrugRow, error) {
	q := fmt.Sprintf(`SELECT drug_key, preferred_name, chembl_id, drugcentral_id, inchikey
		FROM %s WHERE lower(preferred_name) = lower($1) ORDER BY drug_key`, g.rel("drug"))
	return selectRows[DrugRow](ctx, g, "drug_exact", q, name)
}

func (g *Gateway) DrugByExternalID(ctx context.Context, id string) ([]DrugRow, error) {
	q := fmt.Sprintf(`SELECT drug_key, preferred_name, chembl_id, drugcentral_id, inchikey
		FROM %s WHERE chembl_id = $1 OR drugcentral_id = $1 OR inchikey = $1
		ORDER BY drug_key`, g.rel("drug"))
	return selectRows[DrugRow](ctx, g, "drug_by_external_id", q, id)
}

func (g *Gateway) DrugSubstring(ctx context.Context, fragment string, limit int) ([]DrugRow, error) {
	q := fmt.Sprintf(`SELECT drug_key, preferred_name, chembl_id, drugcentral_id, inchikey
		FROM %s WHERE preferred_name ILIKE '%%' || $1 || '%%'
		ORDER BY length(preferred_name), drug_key LIMIT $2`, g.rel("drug"))
	return selectRows[DrugRow](ctx, g, "drug_substring", q, fragment, limit)
}

func (g *Gateway) DrugByKey(ctx context.Context, key int64) (*DrugRow, error) {
	q := fmt.Sprintf(`SELECT drug_key, preferred_name, chembl_id, drugcentral_id, inchikey
		FROM %s WHERE drug_key = $1`, g.rel("drug"))
	var row DrugRow
	if err := g.db.GetContext(ctx, &row, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("drug_by_key", err)
	}
	return &row, nil
}

// =============================================================================
// Gene lookups
// =============================================================================

func (g *Gateway) GeneBySymbol(ctx context.Context, symbol string) ([]GeneRow, error) {
	q := fmt.Sprintf(`SELECT gene_key, symbol, hgnc_id, name
		FROM %s WHERE upper(symbol) = upper($1) ORDER BY gene_key`, g.rel("gene"))
	return selectRows[GeneRow](ctx, g, "gene_by_symbol", q, symbol)
}

func (g *Gateway) GeneByHGNC(ctx context.Context, hgncID string) ([]GeneRow, error) {
	q := fmt.Sprintf(`SELECT gene_key, symbol, hgnc_id, name
		FROM %s WHERE hgnc_id = $1 ORDER BY gene_key`, g.rel("gene"))
	return selectRows[GeneRow](ctx, g, "gene_by_hgnc", q, hgncID)
}

func (g *Gateway) GeneSubstring(ctx context.Context, fragment string, limit int) ([]GeneRow, error) {
	q := fmt.Sprintf(`SELECT gene_key, symbol, hgnc_id, name
		FROM %s WHERE symbol ILIKE '%%' || $1 || '%%' OR name ILIKE '%%' || $1 || '%%'
		ORDER BY length(symbol), gene_key LIMIT $2`, g.rel("gene"))
	return selectRows[GeneRow](ctx, g, "gene_substring", q, fragment, limit)
}

// =============================================================================
// Disease lookups
// =============================================================================

func (g *Gateway) DiseaseExact(ctx context.Context, label string) ([]DiseaseRow, error) {
	q := fmt.Sprintf(`SELECT disease_key, label, ontology_id
		FROM %s WHERE lower(label) = lower($1) ORDER BY disease_key`, g.rel("disease"))
	return selectRows[DiseaseRow](ctx, g, "disease_exact", q, label)
}

func (g *Gateway) DiseaseByOntologyID(ctx context.Context, id string) ([]DiseaseRow, error) {
	q := fmt.Sprintf(`SELECT disease_key, label, ontology_id
		FROM %s WHERE ontology_id = $1 ORDER BY disease_key`, g.rel("disease"))
	return selectRows[DiseaseRow](ctx, g, "disease_by_ontology_id", q, id)
}

func (g *Gateway) DiseaseSubstring(ctx context.Context, fragment string, limit int) ([]DiseaseRow, error) {
	q := fmt.Sprintf(`SELECT disease_key, label, ontology_id
		FROM %s WHERE label ILIKE '%%' || $1 || '%%'
		ORDER BY length(label), disease_key LIMIT $2`, g.rel("disease"))
	return selectRows[DiseaseRow](ctx, g, "disease_substring", q, fragment, limit)
}

// =============================================================================
// Adverse event lookups
// =============================================================================

func (g *Gateway) AdverseEventExact(ctx context.Context, label string) ([]AdverseEventRow, error) {
	q := fmt.Sprintf(`SELECT ae_key, label, meddra_code
		FROM %s WHERE lower(label) = lower($1) ORDER BY ae_key`, g.rel("adverse_event"))
	return selectRows[AdverseEventRow](ctx, g, "ae_exact", q, label)
}

func (g *Gateway) AdverseEventByCode(ctx context.Context, code string) ([]AdverseEventRow, error) {
	q := fmt.Sprintf(`SELECT ae_key, label, meddra_code
		FROM %s WHERE meddra_code = $1 ORDER BY ae_key`, g.rel("adverse_event"))
	return selectRows[AdverseEventRow](ctx, g, "ae_by_code", q, code)
}

func (g *Gateway) AdverseEventSubstring(ctx context.Context, fragment string, limit int) ([]AdverseEventRow, error) {
	q := fmt.Sprintf(`SELECT ae_key, label, meddra_code
		FROM %s WHERE label ILIKE '%%' || $1 || '%%'
		ORDER BY length(label), ae_key LIMIT $2`, g.rel("adverse_event"))
	return selectRows[AdverseEventRow](ctx, g, "ae_substring", q, fragment, limit)
}

// =============================================================================
// Relationship queries
// =============================================================================

func (g *Gateway) TargetsOfDrug(ctx context.Context, drugKey int64) ([]TargetRow, error) {
	q := fmt.Sprintf(`SELECT gn.gene_key, gn.symbol, c.claim_key, c.predicate, c.strength, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key AND c.predicate = 'TARGETS'
		JOIN %s cg ON cg.claim_key = c.claim_key
		JOIN %s gn ON gn.gene_key = cg.gene_key
		WHERE hc.entity_kind = 'drug' AND hc.entity_key = $1
		ORDER BY gn.symbol, c.claim_key`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_gene"), g.rel("gene"))
	return selectRows[TargetRow](ctx, g, "targets_of_drug", q, drugKey)
}

func (g *Gateway) PathwaysOfGene(ctx context.Context, geneKey int64) ([]GenePathwayRow, error) {
	q := fmt.Sprintf(`SELECT p.pathway_key, p.name, c.claim_key, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key AND c.predicate = 'IN_PATHWAY'
		JOIN %s cp ON cp.claim_key = c.claim_key
		JOIN %s p ON p.pathway_key = cp.pathway_key
		WHERE hc.entity_kind = 'gene' AND hc.entity_key = $1
		ORDER BY p.name, c.claim_key`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_pathway"), g.rel("pathway"))
	return selectRows[GenePathwayRow](ctx, g, "pathways_of_gene", q, geneKey)
}

func (g *Gateway) DiseasesOfGene(ctx context.Context, geneKey int64) ([]GeneDiseaseRow, error) {
	q := fmt.Sprintf(`SELECT d.disease_key, d.label, c.claim_key, c.strength, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key AND c.predicate = 'ASSOCIATED_WITH'
		JOIN %s cd ON cd.claim_key = c.claim_key
		JOIN %s d ON d.disease_key = cd.disease_key
		WHERE hc.entity_kind = 'gene' AND hc.entity_key = $1
		ORDER BY c.strength DESC NULLS LAST, d.label`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_disease"), g.rel("disease"))
	return selectRows[GeneDiseaseRow](ctx, g, "diseases_of_gene", q, geneKey)
}

func (g *Gateway) GenesOfDisease(ctx context.Context, diseaseKey int64) ([]DiseaseGeneRow, error) {
	q := fmt.Sprintf(`SELECT gn.gene_key, gn.symbol, c.claim_key, c.strength, c.dataset_id
		FROM %s cd
		JOIN %s c ON c.claim_key = cd.claim_key AND c.predicate = 'ASSOCIATED_WITH'
		JOIN %s hc ON hc.claim_key = c.claim_key AND hc.entity_kind = 'gene'
		JOIN %s gn ON gn.gene_key = hc.entity_key
		WHERE cd.disease_key = $1
		ORDER BY c.strength DESC NULLS LAST, gn.symbol`,
		g.rel("claim_disease"), g.rel("claim"), g.rel("has_claim"), g.rel("gene"))
	return selectRows[DiseaseGeneRow](ctx, g, "genes_of_disease", q, diseaseKey)
}

func (g *Gateway) InteractorsOfGene(ctx context.Context, geneKey int64) ([]InteractorRow, error) {
	q := fmt.Sprintf(`SELECT gn.gene_key, gn.symbol, c.claim_key, c.strength, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key AND c.predicate = 'INTERACTS_WITH'
		JOIN %s cg ON cg.claim_key = c.claim_key
		JOIN %s gn ON gn.gene_key = cg.gene_key
		WHERE hc.entity_kind = 'gene' AND hc.entity_key = $1 AND cg.gene_key <> $1
		UNION
		SELECT gn2.gene_key, gn2.symbol, c2.claim_key, c2.strength, c2.dataset_id
		FROM %s cg2
		JOIN %s c2 ON c2.claim_key = cg2.claim_key AND c2.predicate = 'INTERACTS_WITH'
		JOIN %s hc2 ON hc2.claim_key = c2.claim_key AND hc2.entity_kind = 'gene'
		JOIN %s gn2 ON gn2.gene_key = hc2.entity_key
		WHERE cg2.gene_key = $1 AND hc2.entity_key <> $1
		ORDER BY symbol`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_gene"), g.rel("gene"),
		g.rel("claim_gene"), g.rel("claim"), g.rel("has_claim"), g.rel("gene"))
	return selectRows[InteractorRow](ctx, g, "interactors_of_gene", q, geneKey)
}

func (g *Gateway) AdverseEventsOfDrug(ctx context.Context, drugKey int64) ([]DrugAdverseEventRow, error) {
	q := fmt.Sprintf(`SELECT ae.ae_key, ae.label, c.claim_key, c.predicate, c.strength, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key
			AND c.predicate IN ('CAUSES', 'ASSOCIATED_WITH')
		JOIN %s cae ON cae.claim_key = c.claim_key
		JOIN %s ae ON ae.ae_key = cae.ae_key
		WHERE hc.entity_kind = 'drug' AND hc.entity_key = $1
		ORDER BY c.strength DESC NULLS LAST, ae.label`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_adverse_event"), g.rel("adverse_event"))
	return selectRows[DrugAdverseEventRow](ctx, g, "adverse_events_of_drug", q, drugKey)
}

func (g *Gateway) FAERSSignals(ctx context.Context, drugKey int64) ([]FAERSSignalRow, error) {
	q := fmt.Sprintf(`SELECT fs.drug_key, fs.ae_key, ae.label AS ae_label,
			fs.prr, fs.ror, fs.chi2, fs.case_count, fs.report_period
		FROM %s fs
		JOIN %s ae ON ae.ae_key = fs.ae_key
		WHERE fs.drug_key = $1
		ORDER BY fs.case_count DESC, ae.label`,
		g.rel("faers_signal"), g.rel("adverse_event"))
	return selectRows[FAERSSignalRow](ctx, g, "faers_signals", q, drugKey)
}

// LabelSections returns the structured product label text for a drug. When
// sections is empty every stored section comes back.
func (g *Gateway) LabelSections(ctx context.Context, drugKey int64, sections []string) ([]LabelSectionRow, error) {
	if len(sections) == 0 {
		q := fmt.Sprintf(`SELECT drug_key, section, body, source
			FROM %s WHERE drug_key = $1 ORDER BY section`, g.rel("label_section"))
		return selectRows[LabelSectionRow](ctx, g, "label_sections", q, drugKey)
	}
	q := fmt.Sprintf(`SELECT drug_key, section, body, source
		FROM %s WHERE drug_key = $1 AND section = ANY($2) ORDER BY section`, g.rel("label_section"))
	return selectRows[LabelSectionRow](ctx, g, "label_sections", q, drugKey, sections)
}

// =============================================================================
// Claims and evidence
// =============================================================================

func (g *Gateway) ClaimByKey(ctx context.Context, claimKey int64) (*ClaimRow, error) {
	q := fmt.Sprintf(`SELECT claim_key, predicate, strength, dataset_id
		FROM %s WHERE claim_key = $1`, g.rel("claim"))
	var row ClaimRow
	if err := g.db.GetContext(ctx, &row, q, claimKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("claim_by_key", err)
	}
	return &row, nil
}

func (g *Gateway) EvidenceForClaim(ctx context.Context, claimKey int64) ([]EvidenceRow, error) {
	q := fmt.Sprintf(`SELECT evidence_key, claim_key, dataset_id, source_record_id, payload
		FROM %s WHERE claim_key = $1 ORDER BY evidence_key`, g.rel("evidence"))
	return selectRows[EvidenceRow](ctx, g, "evidence_for_claim", q, claimKey)
}

// EvidenceCounts returns the number of evidence records backing each of the
// given claims. Claims with no evidence are absent from the map.
func (g *Gateway) EvidenceCounts(ctx context.Context, claimKeys []int64) (map[int64]int, error) {
	if len(claimKeys) == 0 {
		return map[int64]int{}, nil
	}
	q := fmt.Sprintf(`SELECT claim_key, count(*) AS n
		FROM %s WHERE claim_key = ANY($1) GROUP BY claim_key`, g.rel("evidence"))
	type countRow struct {
		ClaimKey int64 `db:"claim_key"`
		N        int   `db:"n"`
	}
	rows, err := selectRows[countRow](ctx, g, "evidence_counts", q, claimKeys)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(rows))
	for _, r := range rows {
		out[r.ClaimKey] = r.N
	}
	return out, nil
}

func (g *Gateway) ClaimsForEntity(ctx context.Context, kind string, key int64) ([]ClaimRow, error) {
	q := fmt.Sprintf(`SELECT c.claim_key, c.predicate, c.strength, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key
		WHERE hc.entity_kind = $1 AND hc.entity_key = $2
		ORDER BY c.claim_key`,
		g.rel("has_claim"), g.rel("claim"))
	return selectRows[ClaimRow](ctx, g, "claims_for_entity", q, kind, key)
}

// DirectDrugAE returns the claims linking one drug directly to one adverse
// event.
func (g *Gateway) DirectDrugAE(ctx context.Context, drugKey, aeKey int64) ([]ClaimRow, error) {
	q := fmt.Sprintf(`SELECT c.claim_key, c.predicate, c.strength, c.dataset_id
		FROM %s hc
		JOIN %s c ON c.claim_key = hc.claim_key
		JOIN %s cae ON cae.claim_key = c.claim_key
		WHERE hc.entity_kind = 'drug' AND hc.entity_key = $1 AND cae.ae_key = $2
		ORDER BY c.claim_key`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_adverse_event"))
	return selectRows[ClaimRow](ctx, g, "direct_drug_ae", q, drugKey, aeKey)
}

// =============================================================================
// Path traversals
// =============================================================================

// DrugGenePathway returns drug -> gene -> pathway two-hop traversals.
func (g *Gateway) DrugGenePathway(ctx context.Context, drugKey int64) ([]TwoHopRow, error) {
	q := fmt.Sprintf(`SELECT gn.gene_key, gn.symbol AS gene_symbol,
			p.pathway_key AS context_key, p.name AS context_label,
			c1.claim_key AS head_claim, c1.strength AS head_strength, c1.dataset_id AS head_dataset,
			c2.claim_key AS tail_claim, c2.strength AS tail_strength, c2.dataset_id AS tail_dataset,
			c2.predicate AS tail_edge
		FROM %s hc1
		JOIN %s c1 ON c1.claim_key = hc1.claim_key AND c1.predicate = 'TARGETS'
		JOIN %s cg ON cg.claim_key = c1.claim_key
		JOIN %s gn ON gn.gene_key = cg.gene_key
		JOIN %s hc2 ON hc2.entity_kind = 'gene' AND hc2.entity_key = gn.gene_key
		JOIN %s c2 ON c2.claim_key = hc2.claim_key AND c2.predicate = 'IN_PATHWAY'
		JOIN %s cp ON cp.claim_key = c2.claim_key
		JOIN %s p ON p.pathway_key = cp.pathway_key
		WHERE hc1.entity_kind = 'drug' AND hc1.entity_key = $1
		ORDER BY gn.symbol, p.name`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_gene"), g.rel("gene"),
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_pathway"), g.rel("pathway"))
	return selectRows[TwoHopRow](ctx, g, "drug_gene_pathway", q, drugKey)
}

// DrugGeneDisease returns drug -> gene -> disease two-hop traversals.
func (g *Gateway) DrugGeneDisease(ctx context.Context, drugKey int64) ([]TwoHopRow, error) {
	q := fmt.Sprintf(`SELECT gn.gene_key, gn.symbol AS gene_symbol,
			d.disease_key AS context_key, d.label AS context_label,
			c1.claim_key AS head_claim, c1.strength AS head_strength, c1.dataset_id AS head_dataset,
			c2.claim_key AS tail_claim, c2.strength AS tail_strength, c2.dataset_id AS tail_dataset,
			c2.predicate AS tail_edge
		FROM %s hc1
		JOIN %s c1 ON c1.claim_key = hc1.claim_key AND c1.predicate = 'TARGETS'
		JOIN %s cg ON cg.claim_key = c1.claim_key
		JOIN %s gn ON gn.gene_key = cg.gene_key
		JOIN %s hc2 ON hc2.entity_kind = 'gene' AND hc2.entity_key = gn.gene_key
		JOIN %s c2 ON c2.claim_key = hc2.claim_key AND c2.predicate = 'ASSOCIATED_WITH'
		JOIN %s cd ON cd.claim_key = c2.claim_key
		JOIN %s d ON d.disease_key = cd.disease_key
		WHERE hc1.entity_kind = 'drug' AND hc1.entity_key = $1
		ORDER BY gn.symbol, d.label`,
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_gene"), g.rel("gene"),
		g.rel("has_claim"), g.rel("claim"), g.rel("claim_disease"), g.rel("disease"))
	return selectRows[TwoHopRow](ctx, g, "drug_gene_disease", q, drugKey)
}

// =============================================================================
// Edges
// =============================================================================

// EdgesTouching returns every materialized edge incident to one entity, in
// either direction, up to limit rows.
func (g *Gateway) EdgesTouching(ctx context.Context, kind string, key int64, limit int) ([]EdgeRow, error) {
	q := fmt.Sprintf(`SELECT src_kind, src_key, src_label, predicate,
			dst_kind, dst_key, dst_label, claim_key, strength, dataset_id
		FROM %s
		WHERE (src_kind = $1 AND src_key = $2) OR (dst_kind = $1 AND dst_key = $2)
		ORDER BY claim_key LIMIT $3`, g.rel("edge"))
	return selectRows[EdgeRow](ctx, g, "edges_touching", q, kind, key, limit)
}
