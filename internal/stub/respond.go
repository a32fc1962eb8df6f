package stub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"agencydesk/internal/util"
)

type errorBody struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		util.Error("Failed to encode response", util.ErrorField(err))
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, errorBody{Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type contextKey string

const accountContextKey contextKey = "stub.account"

// withAccount stores the authenticated account on the context.
func withAccount(ctx context.Context, acct *Account) context.Context {
	return context.WithValue(ctx, accountContextKey, acct)
}

// accountFrom returns the authenticated account, or nil outside the
// auth middleware.
func accountFrom(ctx context.Context) *Account {
	acct, _ := ctx.Value(accountContextKey).(*Account)
	return acct
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
