package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "verify",
		Short:   "Check that the API key is accepted by the provider",
		Example: `  OPENAI_API_KEY=sk-... lingo verify --provider openai`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.providerName()
			if err != nil {
				return err
			}
			cfg, err := a.providerConfig(name)
			if err != nil {
				return err
			}

			if !a.verifyKey(cmd.Context(), name, cfg) {
				fmt.Fprintf(a.stdout, "%s: invalid\n", name)
				return errors.New("API key rejected")
			}
			fmt.Fprintf(a.stdout, "%s: valid\n", name)
			return nil
		},
	}
}
