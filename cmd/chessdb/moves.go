package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/hashing"
)

func (a *app) newMovesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moves [FEN]",
		Short: "List the legal moves of a position",
		Long: `List the legal moves of a position in UCI and SAN, its status and its
Polyglot hash. Without a FEN the standard start position is used. The FEN
may be given as one quoted argument or as its six fields.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 1 && len(args) != 6 {
				return fmt.Errorf("expected a FEN as 1 or 6 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fen := chess.StartFEN
			if len(args) > 0 {
				fen = strings.Join(args, " ")
			}
			pos, err := chess.ParseFEN(fen)
			if err != nil {
				return err
			}
			return writeMoves(cmd.OutOrStdout(), pos)
		},
	}
}

func writeMoves(w io.Writer, pos *chess.Position) error {
	type line struct{ uci, san string }
	var lines []line
	for _, m := range pos.LegalMoves() {
		san, err := pos.SAN(m)
		if err != nil {
			return err
		}
		lines = append(lines, line{m.UCI(), san})
	}
	slices.SortFunc(lines, func(a, b line) int { return strings.Compare(a.uci, b.uci) })

	fmt.Fprintf(w, "fen:    %s\n", pos.FEN())
	fmt.Fprintf(w, "hash:   %016x\n", hashing.Default().Hash(pos))
	fmt.Fprintf(w, "status: %s\n", positionStatus(pos))
	fmt.Fprintf(w, "moves:  %d\n", len(lines))
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %-5s %s\n", l.uci, l.san); err != nil {
			return err
		}
	}
	return nil
}

func positionStatus(pos *chess.Position) string {
	switch {
	case pos.IsCheckmate():
		return "checkmate"
	case pos.IsStalemate():
		return "stalemate"
	case pos.IsCheck():
		return fmt.Sprintf("%s to move, in check", pos.Turn())
	}
	return fmt.Sprintf("%s to move", pos.Turn())
}
