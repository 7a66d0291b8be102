// Package store loads Annex F, generics-master, and ESOA rows from
// Postgres and persists match results back, in the teacher's
// fetchUnprocessedBatch/saveProcessedProducts batching shape.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/lib/pq"

	"github.com/carlosresu/drg-esoa-matcher/internal/candidate"
	"github.com/carlosresu/drg-esoa-matcher/internal/dose"
	"github.com/carlosresu/drg-esoa-matcher/internal/match"
)

// Store wraps a *sql.DB with the loaders and savers the batch pipeline
// needs, the same way the teacher's ProductProcessor wraps one.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using the lib/pq driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// EsoaRecord pairs a persisted ESOA row with its primary key, so results
// can be written back to the exact row they were read from.
type EsoaRecord struct {
	ID  string
	Row match.EsoaRow
}

// LoadAnnexCandidates reads every Annex F row into the matcher's candidate
// shape.
func (s *Store) LoadAnnexCandidates(ctx context.Context) ([]candidate.Annex, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			drug_code, atc_code, drugbank_id, matched_generic_name, generic_name,
			drug_description, form, route, dose, drug_amount_mg,
			concentration_mg_per_ml, iv_diluent_type, total_volume_ml
		FROM annex_f
	`)
	if err != nil {
		return nil, fmt.Errorf("store: load annex_f: %w", err)
	}
	defer rows.Close()

	var out []candidate.Annex
	for rows.Next() {
		var a candidate.Annex
		var atc, drugbankID, generic, doseStr, ivType sql.NullString
		var drugMg, conc, vol sql.NullFloat64
		if err := rows.Scan(
			&a.DrugCode, &atc, &drugbankID, &a.MatchedGenericName, &generic,
			&a.Description, &a.Form, &a.Route, &doseStr, &drugMg,
			&conc, &ivType, &vol,
		); err != nil {
			log.Printf("store: skipping malformed annex_f row: %v", err)
			continue
		}
		a.ATCCode = atc.String
		a.DrugbankID = drugbankID.String
		a.GenericName = generic.String
		a.Dose = dose.Input{
			Dose:                 doseStr.String,
			IVDiluentType:        ivType.String,
			Description:          a.Description,
			MatchedGenericName:   a.MatchedGenericName,
			DrugAmountMg:         nullFloatPtr(drugMg),
			ConcentrationMgPerML: nullFloatPtr(conc),
			TotalVolumeML:        nullFloatPtr(vol),
		}
		if a.DrugCode == "" {
			log.Printf("store: skipping annex_f row with no drug_code")
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SynonymPair is one row of the generics_master table's pipe-separated
// synonyms column, already split into a single (generic, synonym) edge.
type SynonymPair [2]string

// LoadGenericsMasterSynonyms reads generics_master and expands its
// pipe-separated synonyms column into individual pairs.
func (s *Store) LoadGenericsMasterSynonyms(ctx context.Context) ([]SynonymPair, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT generic_name, synonyms FROM generics_master`)
	if err != nil {
		return nil, fmt.Errorf("store: load generics_master: %w", err)
	}
	defer rows.Close()

	var pairs []SynonymPair
	for rows.Next() {
		var generic string
		var synonyms sql.NullString
		if err := rows.Scan(&generic, &synonyms); err != nil {
			log.Printf("store: skipping malformed generics_master row: %v", err)
			continue
		}
		if !synonyms.Valid || synonyms.String == "" {
			continue
		}
		for _, syn := range splitPipe(synonyms.String) {
			if syn != "" && syn != generic {
				pairs = append(pairs, SynonymPair{generic, syn})
			}
		}
	}
	return pairs, rows.Err()
}

// CountUnmatchedEsoa returns how many ESOA rows still have no drug_code.
func (s *Store) CountUnmatchedEsoa(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM esoa WHERE drug_code IS NULL`).Scan(&n)
	return n, err
}

// LoadEsoaBatch fetches up to batchSize unmatched ESOA rows.
func (s *Store) LoadEsoaBatch(ctx context.Context, batchSize int) ([]EsoaRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, matched_generic_name, generic_name, description, form, route, dose,
			drug_amount_mg, concentration_mg_per_ml, iv_diluent_type, total_volume_ml,
			release_details, type_details, form_details, indication_details,
			salt_details, alias_details, iv_diluent_amount
		FROM esoa
		WHERE drug_code IS NULL
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, fmt.Errorf("store: load esoa batch: %w", err)
	}
	defer rows.Close()

	var out []EsoaRecord
	for rows.Next() {
		var rec EsoaRecord
		var generic, doseStr, ivType sql.NullString
		var drugMg, conc, vol sql.NullFloat64
		if err := rows.Scan(
			&rec.ID, &rec.Row.MatchedGenericName, &generic, &rec.Row.Description,
			&rec.Row.Form, &rec.Row.Route, &doseStr, &drugMg, &conc, &ivType, &vol,
			&rec.Row.ReleaseDetails, &rec.Row.TypeDetails, &rec.Row.FormDetails,
			&rec.Row.IndicationDetails, &rec.Row.SaltDetails, &rec.Row.AliasDetails,
			&rec.Row.IVDiluentAmount,
		); err != nil {
			log.Printf("store: skipping malformed esoa row: %v", err)
			continue
		}
		rec.Row.GenericName = generic.String
		rec.Row.Dose = dose.Input{
			Dose:                 doseStr.String,
			IVDiluentType:        ivType.String,
			Description:          rec.Row.Description,
			MatchedGenericName:   rec.Row.MatchedGenericName,
			DrugAmountMg:         nullFloatPtr(drugMg),
			ConcentrationMgPerML: nullFloatPtr(conc),
			TotalVolumeML:        nullFloatPtr(vol),
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MatchOutcome pairs an ESOA row's primary key with its decided result.
type MatchOutcome struct {
	ID     string
	Result match.Result
}

// SaveMatches writes drug_code and drug_code_match_reason back in one
// transaction, stopping and rolling back on the first write error exactly
// as the teacher's saveProcessedProducts does.
func (s *Store) SaveMatches(ctx context.Context, outcomes []MatchOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE esoa SET drug_code = $2, drug_code_match_reason = $3 WHERE id = $1
	`)
	if err != nil {
		return fmt.Errorf("store: prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, o.ID, o.Result.DrugCode, o.Result.Reason); err != nil {
			return fmt.Errorf("store: save match for esoa row %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

func nullFloatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func splitPipe(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
