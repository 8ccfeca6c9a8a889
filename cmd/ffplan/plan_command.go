// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/ffplan/internal/app"
	"github.com/ManuGH/ffplan/internal/ffmpeg/pipeline"
	"github.com/ManuGH/ffplan/internal/job"
	"github.com/ManuGH/ffplan/internal/log"
)

// Output formats of the plan command.
const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatArgs = "args"
)

// maxConcurrentPlans bounds parallel builds of one invocation.
const maxConcurrentPlans = 8

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		outputFormat string
		outPath      string
		probe        bool
	)

	cmd := &cobra.Command{
		Use:   "plan JOB.yaml [JOB.yaml...]",
		Short: "Plan the ffmpeg pipeline for one or more jobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case formatYAML, formatJSON, formatArgs:
			default:
				return fmt.Errorf("unsupported --format %q (supported: yaml, json, args)", outputFormat)
			}

			cfg := ctx.cfg
			if cmd.Flags().Changed("probe") {
				cfg.Probe = probe
			}
			builder, _, err := app.NewBuilder(cmd.Context(), cfg, probeFunc)
			if err != nil {
				return err
			}

			docs, err := planJobs(cmd, builder, args)
			if err != nil {
				return err
			}
			if outputFormat == formatArgs {
				for _, d := range docs {
					if len(d.Args) == 0 {
						return fmt.Errorf("job %q: --format args needs input and output", d.Job)
					}
				}
			}

			out, err := render(docs, outputFormat, cfg.FFmpegPath)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := renameio.WriteFile(outPath, out, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", formatYAML, "Output format: yaml, json or args")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the result atomically to this file instead of stdout")
	cmd.Flags().BoolVar(&probe, "probe", false, "Probe the ffmpeg binary for hardware support before planning")
	return cmd
}

// planJobs builds every job concurrently. Results keep argument order.
func planJobs(cmd *cobra.Command, builder *pipeline.Builder, paths []string) ([]pipeline.Document, error) {
	docs := make([]pipeline.Document, len(paths))
	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentPlans)

	for i, path := range paths {
		g.Go(func() error {
			spec, err := job.Load(path)
			if err != nil {
				return err
			}
			in, err := spec.PipelineInput()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			buildCtx := log.ContextWithBuildID(gctx, uuid.NewString())
			plan, err := builder.Build(buildCtx, in)
			if err != nil {
				return fmt.Errorf("job %q: %w", spec.Name, err)
			}
			doc := plan.Document(spec.Input, spec.Output)
			doc.Job = spec.Name
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func render(docs []pipeline.Document, outputFormat, ffmpegPath string) ([]byte, error) {
	var buf bytes.Buffer
	switch outputFormat {
	case formatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	case formatArgs:
		for _, d := range docs {
			buf.WriteString(commandLine(ffmpegPath, d.Args))
			buf.WriteByte('\n')
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		for _, d := range docs {
			if err := enc.Encode(d); err != nil {
				return nil, fmt.Errorf("encode yaml: %w", err)
			}
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// commandLine joins args for a POSIX shell, quoting where needed.
func commandLine(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(bin))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
