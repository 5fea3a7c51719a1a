package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/xlsx-bridge/bridge"
)

func sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file>",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				doc, done, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				defer done()

				sheets, err := doc.GetSheetList(ctx)
				if err != nil {
					return err
				}
				for i, name := range sheets {
					fmt.Printf("%d\t%s\n", i, name)
				}
				return nil
			})
		},
	}
}

func rowsCmd() *cobra.Command {
	var (
		sheet string
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "rows <file>",
		Short: "Print the rows of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				doc, done, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				defer done()

				sheets, err := doc.GetSheetList(ctx)
				if err != nil {
					return err
				}
				if !all {
					if sheet == "" {
						sheet = sheets[0]
					}
					sheets = []string{sheet}
				}

				rows, err := readSheets(ctx, doc, s, sheets)
				if err != nil {
					return err
				}
				for i, name := range sheets {
					if all {
						fmt.Printf("== %s\n", name)
					}
					for _, row := range rows[i] {
						fmt.Println(strings.Join(row, "\t"))
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&all, "all", false, "Print every sheet")
	return cmd
}

// readSheets reads the rows of each sheet concurrently.
func readSheets(ctx context.Context, doc *bridge.Document, s *session, sheets []string) ([][][]string, error) {
	out := make([][][]string, len(sheets))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range sheets {
		g.Go(func() error {
			rows, err := doc.GetRows(gctx, name, s.opts)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
			out[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func cellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cell <file> <sheet> <cell>",
		Short: "Print the formatted value of a cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				doc, done, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				defer done()

				v, err := doc.GetCellValue(ctx, args[1], args[2], s.opts)
				if err != nil {
					return err
				}
				fmt.Println(v)
				return nil
			})
		},
	}
}

func styleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "style <file> <id>",
		Short: "Print a style definition as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid style id %q", args[1])
			}
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				doc, done, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				defer done()

				style, err := doc.GetStyle(ctx, id)
				if err != nil {
					return err
				}
				out, err := yaml.Marshal(style)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(out)
				return err
			})
		},
	}
}

func coordsCmd() *cobra.Command {
	var abs bool
	cmd := &cobra.Command{
		Use:   "coords <col> <row> | coords <cell>",
		Short: "Convert between coordinates and cell names",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				if len(args) == 1 {
					col, row, err := s.b.CellNameToCoordinates(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Printf("%d %d\n", col, row)
					return nil
				}
				col, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid column %q", args[0])
				}
				row, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid row %q", args[1])
				}
				name, err := s.b.CoordinatesToCellName(ctx, col, row, abs)
				if err != nil {
					return err
				}
				fmt.Println(name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&abs, "abs", false, "Emit an absolute reference")
	return cmd
}

func stylizeCmd() *cobra.Command {
	var (
		stylePath string
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "stylize <file> <sheet> <top-left> <bottom-right>",
		Short: "Create a style from YAML and apply it to a range",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(stylePath)
			if err != nil {
				return fmt.Errorf("read style: %w", err)
			}
			var style excelize.Style
			if err := yaml.Unmarshal(data, &style); err != nil {
				return fmt.Errorf("parse style: %w", err)
			}

			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				doc, done, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				defer done()

				id, err := doc.NewStyle(ctx, &style)
				if err != nil {
					return err
				}
				if err := doc.SetCellStyle(ctx, args[1], args[2], args[3], id); err != nil {
					return err
				}
				if outPath == "" {
					err = doc.Save(ctx, s.opts)
				} else {
					err = doc.SaveAs(ctx, outPath, s.opts)
				}
				if err != nil {
					return err
				}
				fmt.Printf("applied style %d to %s!%s:%s\n", id, args[1], args[2], args[3])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&stylePath, "style", "", "YAML file with the style definition")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (default: overwrite input)")
	_ = cmd.MarkFlagRequired("style")
	return cmd
}
