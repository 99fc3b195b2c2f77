package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/codec"
	"github.com/lgbarn/chessdb/internal/eco"
	"github.com/lgbarn/chessdb/internal/output"
	"github.com/lgbarn/chessdb/internal/store/badgerstore"
)

type ecoOptions struct {
	classification string
	lookup         string
	db             string
	quiet          bool
}

func (a *app) newECOCmd() *cobra.Command {
	opts := ecoOptions{}
	cmd := &cobra.Command{
		Use:   "eco FILE...",
		Short: "Convert ECO opening tables to JSON or a store",
		Long: `Parse ECO opening files into two tables: a classification table of
opening codes and names keyed by position hash, and a lookup table of names
and FENs keyed by code.

Each entry reads: CODE "Name" ["start FEN"] moves *

Examples:
  chessdb eco -c classification.json -l lookup.json eco.eco
  chessdb eco --db ./ecodb -q eco.eco`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runECO(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.classification, "classification", "c", "", "output file for the classification table")
	f.StringVarP(&opts.lookup, "lookup", "l", "", "output file for the lookup table")
	f.StringVar(&opts.db, "db", "", "save both tables to a store in this directory")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print each entry as it is read")
	return cmd
}

func (a *app) runECO(cmd *cobra.Command, args []string, opts ecoOptions) error {
	cfg := a.config(cmd).WithQuiet(opts.quiet).Build()
	out := cmd.OutOrStdout()

	p := eco.NewParser(cfg)
	entries := 0
	for _, path := range args {
		if err := p.Tokenize(path); err != nil {
			return err
		}
		for p.HasMore() {
			_, err := p.ReadChunk()
			if eco.Skipped(err) {
				continue
			}
			if err != nil {
				return err
			}
			entries++
			if !cfg.Output.Quiet {
				fmt.Fprintln(out, p.CurrentECO(), p.CurrentName())
			}
		}
	}
	if err := p.Err(); err != nil {
		a.logger.Warn("skipped malformed entries", zap.Error(err))
	}

	if opts.classification != "" {
		if err := writeTable(opts.classification, func(w io.Writer) error {
			return output.WriteClassificationJSON(w, p.Classification())
		}); err != nil {
			return err
		}
	}
	if opts.lookup != "" {
		if err := writeTable(opts.lookup, func(w io.Writer) error {
			return output.WriteLookupJSON(w, p.Lookup())
		}); err != nil {
			return err
		}
	}
	if opts.db != "" {
		s, err := badgerstore.Open(opts.db)
		if err != nil {
			return err
		}
		if err := p.Save(cmd.Context(), s); err != nil {
			s.Close()
			return err
		}
		if err := s.Close(); err != nil {
			return err
		}
	}

	a.logger.Info("ECO tables built",
		zap.String("entries", humanize.Comma(int64(entries))),
		zap.Int("positions", len(p.Classification())),
		zap.Int("codes", len(p.Lookup())),
	)
	return nil
}

// writeTable renders a table and writes it to path. Paths ending in .gz or
// .zst are compressed.
func writeTable(path string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return codec.WriteFile(path, buf.Bytes(), 0o644)
}
