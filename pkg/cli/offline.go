package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/logging"
	"github.com/getmockd/form-urlencoded-plugin/pkg/plugin"
)

// ErrContentMismatch is returned by the compare command when the contents
// do not match, so the process exits non-zero.
var ErrContentMismatch = errors.New("contents did not match")

// offlinePlugin builds a plugin that logs to stderr at warn level.
func offlinePlugin(cmd *cobra.Command) *plugin.Plugin {
	log := logging.New(logging.Config{
		Level:  logging.LevelWarn,
		Format: logging.FormatText,
		Output: cmd.ErrOrStderr(),
	})
	return plugin.New(plugin.WithLogger(log))
}

// callError strips the gRPC status wrapping from a plugin error.
func callError(err error) error {
	if s, ok := status.FromError(err); ok {
		return errors.New(s.Message())
	}
	return err
}

// readJSON decodes the file at path into v. "-" reads from in.
func readJSON(in io.Reader, path string, v any) error {
	var r io.Reader = in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

type interactionView struct {
	Contents   string                          `json:"contents"`
	Rules      map[string]plugin.MatchingRules `json:"rules,omitempty"`
	Generators map[string]plugin.Generator     `json:"generators,omitempty"`
	Markup     string                          `json:"markup"`
}

func newConfigureCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "configure [key=definition...]",
		Short: "Build contents, rules and generators from field definitions",
		Example: `  form-urlencoded-plugin configure "field:name=matching(type,'Fred')" "field:age=matching(integer,42)"
  form-urlencoded-plugin configure --file fields.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]any{}
			if file != "" {
				if err := readJSON(cmd.InOrStdin(), file, &fields); err != nil {
					return err
				}
			}
			for _, arg := range args {
				name, def, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected key=definition, got '%s'", arg)
				}
				fields[name] = def
			}

			resp, err := offlinePlugin(cmd).ConfigureInteraction(cmd.Context(), &plugin.ConfigureInteractionRequest{
				ContentType:    form.ContentType,
				ContentsConfig: fields,
			})
			if err != nil {
				return callError(err)
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}

			interaction := resp.Interaction[0]
			return printJSON(cmd.OutOrStdout(), interactionView{
				Contents:   string(interaction.Contents.Content),
				Rules:      interaction.Rules,
				Generators: interaction.Generators,
				Markup:     interaction.InteractionMarkup,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON object of field definitions (- for stdin)")
	return cmd
}

type mismatchView struct {
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Mismatch string `json:"mismatch"`
	Path     string `json:"path,omitempty"`
}

func newCompareCmd() *cobra.Command {
	var (
		expected        string
		actual          string
		rulesFile       string
		allowUnexpected bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two form url encoded bodies",
		Long: `Compare an expected body with an actual one and print the mismatches.
Leaving out --expected or --actual compares against a missing body.`,
		Example: `  form-urlencoded-plugin compare --expected 'id=1&name=Fred' --actual 'id=2&name=Fred'
  form-urlencoded-plugin compare --expected 'id=1' --actual 'id=abc' --rules rules.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &plugin.CompareContentsRequest{AllowUnexpectedKeys: allowUnexpected}
			if cmd.Flags().Changed("expected") {
				req.Expected = &plugin.Body{ContentType: form.ContentType, Content: []byte(expected)}
			}
			if cmd.Flags().Changed("actual") {
				req.Actual = &plugin.Body{ContentType: form.ContentType, Content: []byte(actual)}
			}
			if rulesFile != "" {
				if err := readJSON(cmd.InOrStdin(), rulesFile, &req.Rules); err != nil {
					return err
				}
			}

			resp, err := offlinePlugin(cmd).CompareContents(cmd.Context(), req)
			if err != nil {
				return callError(err)
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}

			results := make(map[string][]mismatchView, len(resp.Results))
			count := 0
			for key, group := range resp.Results {
				views := make([]mismatchView, 0, len(group.Mismatches))
				for _, m := range group.Mismatches {
					views = append(views, mismatchView{
						Expected: string(m.Expected),
						Actual:   string(m.Actual),
						Mismatch: m.Mismatch,
						Path:     m.Path,
					})
				}
				results[key] = views
				count += len(views)
			}
			if err := printJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: %d mismatches", ErrContentMismatch, count)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&expected, "expected", "", "Expected body")
	fs.StringVar(&actual, "actual", "", "Actual body")
	fs.StringVar(&rulesFile, "rules", "", "JSON file mapping paths to matching rules (- for stdin)")
	fs.BoolVar(&allowUnexpected, "allow-unexpected", false, "Allow fields that are not in the expected body")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		template       string
		generatorsFile string
		testContext    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Replace field values in a body using generators",
		Example: `  form-urlencoded-plugin generate --template 'id=1&name=Fred' --generators generators.json
  form-urlencoded-plugin generate --template 'id=1' --generators - --context '{"id":"42"}' < generators.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &plugin.GenerateContentRequest{
				Contents: &plugin.Body{ContentType: form.ContentType, Content: []byte(template)},
			}
			if generatorsFile != "" {
				if err := readJSON(cmd.InOrStdin(), generatorsFile, &req.Generators); err != nil {
					return err
				}
			}
			if testContext != "" {
				if err := json.Unmarshal([]byte(testContext), &req.TestContext); err != nil {
					return fmt.Errorf("failed to decode --context: %w", err)
				}
			}

			resp, err := offlinePlugin(cmd).GenerateContent(cmd.Context(), req)
			if err != nil {
				return callError(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(resp.Contents.Content))
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&template, "template", "t", "", "Body to generate from")
	fs.StringVarP(&generatorsFile, "generators", "g", "", "JSON file mapping field keys to generators (- for stdin)")
	fs.StringVar(&testContext, "context", "", "JSON object of test context values")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
