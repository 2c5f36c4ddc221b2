//go:build e2e

package lootrequest_test

import (
	"net/http"
	"sync"
	"testing"

	"loot-ledger/internal/handler/dto/response"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/tests/common/dbtest"
	"loot-ledger/tests/common/httptest"
	"loot-ledger/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL    = "/api/auth/login"
	requestsURL = "/api/requests"
)

type lootRequestSuite struct {
	e2e.SharedSuite

	tenantID uuid.UUID
	adminID  uuid.UUID
	viewerID uuid.UUID
}

func TestLootRequestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(lootRequestSuite))
}

func (s *lootRequestSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.tenantID = dbtest.CreateTestTenant(t, s.DB, "Raid Guild")
	s.adminID = dbtest.CreateTestMember(t, s.DB, s.tenantID, "admin@example.com", "admin")
	s.viewerID = dbtest.CreateTestMember(t, s.DB, s.tenantID, "viewer@example.com", "viewer")
}

func (s *lootRequestSuite) login(email string) string {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, map[string]string{
		"email":    email,
		"password": dbtest.TestPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed for %s", email)

	var body response.LoginResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
	return body.AccessToken
}

func (s *lootRequestSuite) submit(token string, itemID uuid.UUID, qty int) queries.RequestView {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, requestsURL, map[string]any{
		"item_id":  itemID.String(),
		"quantity": qty,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view queries.RequestView
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
	return view
}

func (s *lootRequestSuite) TestApprovalFlow() {
	s.Run("approval assigns the stock to the requester", func() {
		t := s.T()
		viewerToken := s.login("viewer@example.com")
		adminToken := s.login("admin@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, s.tenantID, "Shield", "armor", 5)

		req := s.submit(viewerToken, itemID, 2)
		require.Equal(t, "PENDING", req.Status)
		require.Equal(t, s.viewerID, req.UserID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			requestsURL+"/"+req.ID.String()+"/approve", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var decided queries.RequestView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &decided))
		require.Equal(t, "APPROVED", decided.Status)
		require.NotNil(t, decided.DecidedBy)
		require.Equal(t, s.adminID, *decided.DecidedBy)

		var remaining int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT quantity FROM inventory_items WHERE id = $1", itemID).Scan(&remaining))
		require.Equal(t, 3, remaining)

		var entries int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM distribution_log WHERE tenant_id = $1 AND recipient_id = $2 AND method = 'REQUEST_APPROVAL'",
			s.tenantID, s.viewerID).Scan(&entries))
		require.Equal(t, 1, entries)
	})

	s.Run("insufficient stock leaves the request pending", func() {
		t := s.T()
		viewerToken := s.login("viewer@example.com")
		adminToken := s.login("admin@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, s.tenantID, "Shield", "armor", 1)

		req := s.submit(viewerToken, itemID, 5)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			requestsURL+"/"+req.ID.String()+"/approve", nil, adminToken)
		require.Equal(t, http.StatusConflict, w.Code)

		var status string
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT status FROM loot_requests WHERE id = $1", req.ID).Scan(&status))
		require.Equal(t, "PENDING", status)

		var remaining int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT quantity FROM inventory_items WHERE id = $1", itemID).Scan(&remaining))
		require.Equal(t, 1, remaining)
	})

	s.Run("concurrent approvals decide the request exactly once", func() {
		t := s.T()
		viewerToken := s.login("viewer@example.com")
		adminToken := s.login("admin@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, s.tenantID, "Shield", "armor", 5)

		req := s.submit(viewerToken, itemID, 2)
		url := requestsURL + "/" + req.ID.String() + "/approve"

		codes := make(chan int, 2)
		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, adminToken)
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		var got []int
		for code := range codes {
			got = append(got, code)
		}
		require.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, got)

		// The stock must have been reserved once, not twice.
		var remaining int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT quantity FROM inventory_items WHERE id = $1", itemID).Scan(&remaining))
		require.Equal(t, 3, remaining)

		var entries int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM distribution_log WHERE tenant_id = $1", s.tenantID).Scan(&entries))
		require.Equal(t, 1, entries)
	})

	s.Run("rejection records the reason", func() {
		t := s.T()
		viewerToken := s.login("viewer@example.com")
		adminToken := s.login("admin@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, s.tenantID, "Shield", "armor", 5)

		req := s.submit(viewerToken, itemID, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			requestsURL+"/"+req.ID.String()+"/reject",
			map[string]string{"reason": "reserved for raid night"}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var decided queries.RequestView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &decided))
		require.Equal(t, "REJECTED", decided.Status)
		require.NotNil(t, decided.DenialReason)
		require.Equal(t, "reserved for raid night", *decided.DenialReason)

		// Decisions are one-way.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			requestsURL+"/"+req.ID.String()+"/approve", nil, adminToken)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("viewers cannot approve", func() {
		t := s.T()
		viewerToken := s.login("viewer@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, s.tenantID, "Shield", "armor", 5)

		req := s.submit(viewerToken, itemID, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			requestsURL+"/"+req.ID.String()+"/approve", nil, viewerToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
