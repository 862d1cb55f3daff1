// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/challenge-registry/api/utils"
	"github.com/vechain/challenge-registry/log"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name             string
		method           string
		body             any
		expectedStatus   int
		expectedLevel    string
		expectedErrorMsg string
	}{
		{"set level to debug", http.MethodPost, map[string]string{"level": "debug"}, http.StatusOK, "debug", ""},
		{"set level to trace", http.MethodPost, map[string]string{"level": "trace"}, http.StatusOK, "trace", ""},
		{"set level to crit", http.MethodPost, map[string]string{"level": "crit"}, http.StatusOK, "crit", ""},
		{"invalid level", http.MethodPost, map[string]string{"level": "invalid_body"}, http.StatusBadRequest, "", "Invalid verbosity level"},
		{"unknown field", http.MethodPost, map[string]string{"verbosity": "debug"}, http.StatusBadRequest, "", ""},
		{"get current level", http.MethodGet, nil, http.StatusOK, "info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logLevel slog.LevelVar
			logLevel.Set(log.LevelInfo)

			var reqBody []byte
			if tt.body != nil {
				var err error
				reqBody, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(tt.method, "/admin/loglevel", bytes.NewReader(reqBody))
			rr := httptest.NewRecorder()
			router := mux.NewRouter()
			New(&logLevel).Mount(router, "/admin/loglevel")
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedLevel != "" {
				var response Response
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
				assert.Equal(t, tt.expectedLevel, response.CurrentLevel)
				return
			}

			var body utils.ErrorBody
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, "validation", body.Category)
			if tt.expectedErrorMsg != "" {
				assert.Equal(t, tt.expectedErrorMsg, body.Message)
			}
			assert.Equal(t, log.LevelInfo, logLevel.Level(), "level must not change on error")
		})
	}
}
