package main

import (
	"github.com/ZaguanLabs/lingo/provider"
	"github.com/ZaguanLabs/lingo/server"
	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve translation, revision and website advice over HTTP. Requests
without an API key use the configured Gemini key (GEMINI_API_KEY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := &log.Logger{Handler: json.New(a.stderr), Level: a.logger.Level}
			gin.SetMode(gin.ReleaseMode)

			model := a.v.GetString("model")
			if model == "" {
				model = provider.DefaultGeminiModel
			}

			srv := server.New(server.Config{
				Addr:         a.v.GetString("addr"),
				GeminiAPIKey: a.v.GetString(string(provider.NameGemini) + "-api-key"),
				GeminiModel:  model,
				BatchSize:    a.v.GetInt("batch-size"),
			}, server.WithLogger(logger))

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Int("batch-size", 0, "Messages per model call (default: engine default)")
	return cmd
}
