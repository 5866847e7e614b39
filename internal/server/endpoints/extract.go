package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/AbhinavPrakashCoading/dockit/internal/api"
	"github.com/AbhinavPrakashCoading/dockit/internal/extract"
	"github.com/AbhinavPrakashCoading/dockit/internal/fetch"
	"github.com/AbhinavPrakashCoading/dockit/internal/pipeline"
	"github.com/AbhinavPrakashCoading/dockit/internal/svcctx"
)

// ExtractSchemaRequest is the request body for POST /api/extract-schema.
type ExtractSchemaRequest struct {
	URL string `json:"url"`
}

// ExtractSchemaEndpoint handles POST /api/extract-schema. It runs the full
// extraction pipeline against the PDF at the given URL and returns the
// resolved schema.
type ExtractSchemaEndpoint struct{}

func (e *ExtractSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract-schema", e.handler
}

func (e *ExtractSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ExtractSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	engine := svcctx.EngineFrom(r.Context())
	if engine == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction pipeline not available")
		return
	}

	result, err := engine.ProcessURL(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, fetch.ErrExhausted):
			writeError(w, http.StatusBadGateway, err.Error())
		case errors.Is(err, extract.ErrUnreadable):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *ExtractSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "extract-schema <pdf-url>",
		Short: "Extract a form schema from a PDF URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var result pipeline.Result
			req := ExtractSchemaRequest{URL: args[0]}
			if err := client.Post(cmd.Context(), "/api/extract-schema", req, &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
}
