package main

import (
	"archive/tar"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/etnz/debwalk/deb"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	debug      bool
	variants   bool
	fold       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "debwalk",
		Short: "Stream the control fields and payload of Debian packages",
		Long: `debwalk reads a .deb from a file, an http(s) URL or stdin ("-") in a
single pass and prints its control fields, conffiles or payload listing.`,

		// Dont show CLI usage on error.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose debug logs")
	root.PersistentFlags().BoolVar(&opts.variants, "variants", false, "accept every compression variant of the control and data members")
	root.PersistentFlags().BoolVar(&opts.fold, "fold", false, "append continuation lines to control field values")

	root.AddCommand(
		newControlCmd(opts),
		newConffilesCmd(opts),
		newListCmd(opts),
		newInspectCmd(opts),
	)
	return root
}

// walkOptions merges the config file and the flags into deb options. Flags
// explicitly set on the command line win over the config file.
func (o *options) walkOptions(cmd *cobra.Command) ([]deb.Option, error) {
	config := &Config{LogLevel: slog.LevelInfo}
	if o.configPath != "" {
		var err error
		config, err = decodeConfig(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("variants") {
		config.MemberVariants = o.variants
	}
	if flags.Changed("fold") {
		config.FoldContinuations = o.fold
	}
	if o.debug {
		config.LogLevel = slog.LevelDebug
	}
	programLevel.Set(config.LogLevel)

	return []deb.Option{
		deb.WithLogger(slog.Default()),
		deb.WithMemberVariants(config.MemberVariants),
		deb.WithFoldedFields(config.FoldContinuations),
	}, nil
}

// openInput opens a local path, an http(s) URL, or stdin when path is "-".
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	switch {
	case path == "-":
		return io.NopCloser(stdin), nil
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		resp, err := http.Get(path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: status %d", path, resp.StatusCode)
		}
		return resp.Body, nil
	default:
		return os.Open(path)
	}
}

// walkInput walks the package named by path with v.
func walkInput(cmd *cobra.Command, opts *options, path string, v deb.Visitor) error {
	walkOpts, err := opts.walkOptions(cmd)
	if err != nil {
		return err
	}
	r, err := openInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer r.Close()

	slog.Debug("walking package", "input", path)
	if err := deb.Walk(r, v, walkOpts...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func newControlCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "control FILE",
		Short: "Print the control fields as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields map[string]string
			v := deb.VisitorFuncs{
				Control: func(f map[string]string) error {
					fields = f
					return nil
				},
			}
			if err := walkInput(cmd, opts, args[0], v); err != nil {
				return err
			}
			if fields == nil {
				return fmt.Errorf("%s: no control member", args[0])
			}
			return encodeYAML(cmd.OutOrStdout(), fields)
		},
	}
}

func newConffilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "conffiles FILE",
		Short: "Copy the conffiles list to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := deb.VisitorFuncs{
				Conffiles: func(e *deb.Entry) error {
					_, err := io.Copy(cmd.OutOrStdout(), e)
					return err
				},
			}
			return walkInput(cmd, opts, args[0], v)
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "List the payload entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			v := deb.VisitorFuncs{
				File: func(e *deb.Entry) error {
					_, err := fmt.Fprintln(out, formatEntry(&e.Header))
					return err
				},
			}
			return walkInput(cmd, opts, args[0], v)
		},
	}
}

// formatEntry renders a tar header the way "tar tv" does, without owners.
func formatEntry(h *tar.Header) string {
	line := fmt.Sprintf("%s %8d %s %s", h.FileInfo().Mode(), h.Size, h.ModTime.UTC().Format("2006-01-02 15:04"), h.Name)
	switch h.Typeflag {
	case tar.TypeSymlink:
		line += " -> " + h.Linkname
	case tar.TypeLink:
		line += " link to " + h.Linkname
	}
	return line
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print a YAML summary of the package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			walkOpts, err := opts.walkOptions(cmd)
			if err != nil {
				return err
			}
			r, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer r.Close()

			pkg, err := deb.Inspect(r, walkOpts...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return encodeYAML(cmd.OutOrStdout(), summarize(pkg))
		},
	}
}

// Internal DTOs for YAML serialization of a package summary.
type yamlFile struct {
	Path     string `yaml:"path"`
	Mode     string `yaml:"mode"`
	Size     int64  `yaml:"size"`
	Link     string `yaml:"link,omitempty"`
	SHA256   string `yaml:"sha256,omitempty"`
	Conffile bool   `yaml:"conffile,omitempty"`
}

type yamlPackage struct {
	Filename      string            `yaml:"filename"`
	Package       string            `yaml:"package"`
	Version       string            `yaml:"version"`
	Upstream      string            `yaml:"upstream_version"`
	Iteration     string            `yaml:"iteration,omitempty"`
	Architecture  string            `yaml:"architecture"`
	InstalledSize int64             `yaml:"installed_size,omitempty"`
	Depends       []string          `yaml:"depends,omitempty"`
	Fields        map[string]string `yaml:"fields"`
	Conffiles     []string          `yaml:"conffiles,omitempty"`
	Files         []yamlFile        `yaml:"files"`
}

func summarize(pkg *deb.Package) yamlPackage {
	dto := yamlPackage{
		Filename:      pkg.StandardFilename(),
		Package:       pkg.Metadata.Package,
		Version:       pkg.Metadata.Version,
		Upstream:      pkg.UpstreamVersion(),
		Iteration:     pkg.Iteration(),
		Architecture:  pkg.Metadata.Architecture,
		InstalledSize: pkg.Metadata.InstalledSize,
		Depends:       pkg.Metadata.Depends,
		Fields:        pkg.Fields,
		Conffiles:     pkg.Conffiles,
		Files:         make([]yamlFile, len(pkg.Files)),
	}
	for i, f := range pkg.Files {
		h := tar.Header{Typeflag: f.Type, Mode: f.Mode}
		dto.Files[i] = yamlFile{
			Path:     f.DestPath,
			Mode:     h.FileInfo().Mode().String(),
			Size:     f.Size,
			Link:     f.LinkTarget,
			SHA256:   f.SHA256,
			Conffile: f.IsConf,
		}
	}
	return dto
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
