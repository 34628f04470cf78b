package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darkit/deviceid"
	"github.com/darkit/deviceid/processor"
)

type options struct {
	configPath string
	backend    string
	format     string
	appID      string
	components []string
	json       bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "deviceid",
		Short:         "Print a stable identifier for this device",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runID(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&opts.backend, "backend", "b", "", "processor query backend (default: platform specific)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: string, hash or uuid")
	flags.StringVar(&opts.appID, "app-id", "", "application id for protected_machine_id")
	flags.StringSliceVar(&opts.components, "component", nil, "component to include (repeatable)")
	flags.BoolVar(&opts.json, "json", false, "print JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log absorbed component failures to stderr")

	cmd.AddCommand(newComponentsCmd(opts), newProcessorCmd(opts), newBackendsCmd())
	return cmd
}

// loadConfig 合并配置文件与命令行参数，命令行优先
func loadConfig(opts *options) (*deviceid.Config, error) {
	cfg := deviceid.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := deviceid.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.appID != "" {
		cfg.AppID = opts.appID
	}
	if len(opts.components) > 0 {
		cfg.Components = opts.components
	}
	return cfg, cfg.Validate()
}

func newLogger(opts *options) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if opts.verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

func newBuilder(opts *options) (*deviceid.Builder, *deviceid.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	b, err := deviceid.NewFromConfig(cfg, deviceid.WithLogger(newLogger(opts)))
	if err != nil {
		return nil, nil, err
	}
	return b, cfg, nil
}

func runID(ctx context.Context, w io.Writer, opts *options) error {
	b, cfg, err := newBuilder(opts)
	if err != nil {
		return err
	}
	id, err := b.ID(ctx)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(w, map[string]interface{}{
			"id":         id,
			"format":     cfg.Format,
			"components": b.Components(),
		})
	}
	_, err = fmt.Fprintln(w, id)
	return err
}

func newComponentsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "Show the value of every configured component",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, _, err := newBuilder(opts)
			if err != nil {
				return err
			}
			values := b.Resolve(cmd.Context())
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), values)
			}

			found := make(map[string]string, len(values))
			for _, v := range values {
				found[v.Name] = v.Value
			}
			name := color.New(color.FgCyan, color.Bold)
			missing := color.New(color.FgYellow)
			for _, n := range b.Components() {
				name.Fprintf(cmd.OutOrStdout(), "%-22s", n)
				if v, ok := found[n]; ok {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				} else {
					missing.Fprintln(cmd.OutOrStdout(), "<none>")
				}
			}
			return nil
		},
	}
}

func newProcessorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "processor",
		Short: "Query processor records and show how the fingerprint is built",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			backend := processor.Backend(cfg.Backend)
			if backend == processor.BackendAuto {
				backend = processor.DefaultBackend()
			}
			src, err := processor.NewSource(backend)
			if err != nil {
				return err
			}

			// 诊断命令直接展示查询错误，组件本身仍会吞掉该错误
			records, queryErr := src.Records(cmd.Context())
			fingerprint, ok := processor.Normalize(records)

			if opts.json {
				out := map[string]interface{}{
					"backend": backend,
					"records": records,
					"values":  processor.Values(records),
				}
				if ok {
					out["fingerprint"] = fingerprint
				}
				if queryErr != nil {
					out["error"] = queryErr.Error()
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			label := color.New(color.FgCyan, color.Bold)
			label.Fprint(w, "backend:     ")
			fmt.Fprintln(w, backend)
			if queryErr != nil {
				label.Fprint(w, "error:       ")
				color.New(color.FgRed).Fprintln(w, queryErr)
			}
			for i, r := range records {
				label.Fprintf(w, "record %d:    ", i)
				fmt.Fprintf(w, "ProcessorId=%q Manufacturer=%q Name=%q NumberOfCores=%q\n",
					r.ProcessorID, r.Manufacturer, r.Name, r.NumberOfCores)
			}
			label.Fprint(w, "fingerprint: ")
			if ok {
				fmt.Fprintln(w, fingerprint)
			} else {
				color.New(color.FgYellow).Fprintln(w, "<none>")
			}
			return nil
		},
	}
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List processor query backends available on this platform",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			def := processor.DefaultBackend()
			for _, b := range processor.Backends() {
				if b == def {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", b)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
