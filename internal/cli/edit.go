package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/tbxark/checkoutbuilder/assist"
	"github.com/tbxark/checkoutbuilder/types"
)

const editHelp = `Describe a change, e.g. "make the phone field required".
Commands: :show  :undo  :save  :quit`

func newEditCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a checkout configuration with natural-language instructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if settings.Assistant.APIKey == "" {
				return errors.New("assistant.api_key is not set (CHECKOUTBUILDER_ASSISTANT_API_KEY)")
			}
			a, err := newAssistant(cmd.Context(), settings.Assistant, logger)
			if err != nil {
				return err
			}
			cfg, err := readConfiguration(file)
			if err != nil {
				return err
			}
			s := &editSession{assistant: a, cfg: cfg, file: file}
			return s.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "checkout.json", "configuration file to edit; created on :save")
	return cmd
}

type editor interface {
	Edit(ctx context.Context, cfg *types.CheckoutConfiguration, instruction string) (assist.Result, error)
}

type editSession struct {
	assistant editor
	cfg       *types.CheckoutConfiguration
	history   []*types.CheckoutConfiguration
	file      string
}

func (s *editSession) run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, editHelp)
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":show":
			data, err := encodeConfiguration(s.cfg, true)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
		case ":undo":
			if len(s.history) == 0 {
				fmt.Fprintln(out, "nothing to undo")
				continue
			}
			s.cfg = s.history[len(s.history)-1]
			s.history = s.history[:len(s.history)-1]
			fmt.Fprintln(out, "reverted")
		case ":save":
			if err := writeConfiguration(s.file, s.cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", s.file)
		default:
			if err := s.apply(ctx, line, out); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fmt.Fprintf(out, "edit failed: %v\n", err)
			}
		}
	}
}

func (s *editSession) apply(ctx context.Context, instruction string, out io.Writer) error {
	result, err := s.assistant.Edit(ctx, s.cfg, instruction)
	if err != nil {
		return err
	}
	if len(result.Operations) == 0 {
		fmt.Fprintln(out, "no changes")
		return nil
	}
	data, err := sonic.ConfigStd.MarshalIndent(result.Operations, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", data)
	s.history = append(s.history, s.cfg)
	s.cfg = result.Config
	return nil
}
