// Command drugmatch wires config, Postgres storage, the matcher core, the
// worker pool, the Meilisearch publisher, and the HTTP API together behind
// two subcommands: match (batch pipeline) and serve (synchronous API).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/carlosresu/drg-esoa-matcher/internal/api"
	"github.com/carlosresu/drg-esoa-matcher/internal/candidate"
	"github.com/carlosresu/drg-esoa-matcher/internal/config"
	"github.com/carlosresu/drg-esoa-matcher/internal/match"
	"github.com/carlosresu/drg-esoa-matcher/internal/search"
	"github.com/carlosresu/drg-esoa-matcher/internal/store"
	"github.com/carlosresu/drg-esoa-matcher/internal/synonym"
	"github.com/carlosresu/drg-esoa-matcher/internal/workerpool"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	switch os.Args[1] {
	case "match":
		fs := flag.NewFlagSet("match", flag.ExitOnError)
		once := fs.Bool("once", false, "process a single batch and exit, even if rows remain")
		fs.Parse(os.Args[2:])
		if err := runMatch(ctx, cfg, *once); err != nil {
			log.Fatalf("drugmatch match: %v", err)
		}
	case "serve":
		if err := runServe(ctx, cfg); err != nil {
			log.Fatalf("drugmatch serve: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: drugmatch match [--once] | serve")
}

func buildIndex(ctx context.Context, st *store.Store) (*candidate.Index, *synonym.Graph, error) {
	annexRows, err := st.LoadAnnexCandidates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load annex_f: %w", err)
	}
	idx := candidate.Build(annexRows)

	pairs, err := st.LoadGenericsMasterSynonyms(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load generics_master: %w", err)
	}
	graph := synonym.New()
	for _, p := range pairs {
		graph.AddSynonymPairs([][2]string{{p[0], p[1]}})
	}

	log.Printf("drugmatch: indexed %d annex_f rows, %d generics_master synonym pairs", len(annexRows), len(pairs))
	return idx, graph, nil
}

func runMatch(ctx context.Context, cfg config.Config, once bool) error {
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	idx, graph, err := buildIndex(ctx, st)
	if err != nil {
		return err
	}

	publisher, err := search.NewPublisher(cfg.MeiliURL, cfg.MeiliAPIKey)
	if err != nil {
		return fmt.Errorf("connect meilisearch: %w", err)
	}

	for {
		total, err := st.CountUnmatchedEsoa(ctx)
		if err != nil {
			return fmt.Errorf("count unmatched esoa: %w", err)
		}
		if total == 0 {
			log.Println("drugmatch: no unmatched esoa rows remain")
			return nil
		}

		batch, err := st.LoadEsoaBatch(ctx, cfg.MatchBatchSize)
		if err != nil {
			return fmt.Errorf("load esoa batch: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}

		results := workerpool.Run(ctx, batch, cfg.MatchWorkers, func(rec store.EsoaRecord) store.MatchOutcome {
			return store.MatchOutcome{ID: rec.ID, Result: match.Drive(rec.Row, idx, graph)}
		})

		if err := st.SaveMatches(ctx, results); err != nil {
			return fmt.Errorf("save matches: %w", err)
		}

		docs := make([]search.MatchedRow, len(batch))
		for i, rec := range batch {
			res := results[i].Result
			docs[i] = search.MatchedRow{
				EsoaID:      rec.ID,
				DrugCode:    res.DrugCode,
				MatchReason: res.Reason,
				Description: rec.Row.Description,
				GenericName: rec.Row.MatchedGenericName,
				Form:        rec.Row.Form,
				Route:       rec.Row.Route,
			}
		}
		if err := publisher.PublishBatch(ctx, docs); err != nil {
			return fmt.Errorf("publish to meilisearch: %w", err)
		}

		log.Printf("drugmatch: processed %d/%d unmatched rows", len(batch), total)

		if once {
			return nil
		}
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	idx, graph, err := buildIndex(ctx, st)
	if err != nil {
		return err
	}

	srv := api.NewServer(idx, graph)
	log.Printf("drugmatch: serving on %s", cfg.HTTPAddr)
	return http.ListenAndServe(cfg.HTTPAddr, srv.Handler(cfg.CORSOrigins))
}
