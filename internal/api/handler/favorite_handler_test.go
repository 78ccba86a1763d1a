package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cvmotors/dealership-system/internal/api/middleware"
	"github.com/cvmotors/dealership-system/internal/core/domain"
)

type stubFavorites struct {
	saved map[string]bool
}

func favKey(accountID, vehicleID string) string {
	return accountID + "/" + vehicleID
}

func (s *stubFavorites) Add(_ context.Context, accountID, vehicleID string) error {
	s.saved[favKey(accountID, vehicleID)] = true
	return nil
}

func (s *stubFavorites) Remove(_ context.Context, accountID, vehicleID string) (bool, error) {
	key := favKey(accountID, vehicleID)
	if !s.saved[key] {
		return false, nil
	}
	delete(s.saved, key)
	return true, nil
}

func (s *stubFavorites) List(context.Context, string) ([]domain.FavoriteEntry, error) {
	return nil, nil
}

type favHarness struct {
	*accountHarness
	handler *FavoriteHandler
	stub    *stubFavorites
}

func newFavHarness() *favHarness {
	stub := &stubFavorites{saved: make(map[string]bool)}
	return &favHarness{
		accountHarness: newAccountHarness(),
		handler:        NewFavoriteHandler(stub),
		stub:           stub,
	}
}

// remove runs a DELETE through the resolver with a live session cookie.
func (h *favHarness) remove(t *testing.T, vehicleID, clientID string) *httptest.ResponseRecorder {
	t.Helper()
	session, err := h.issuer.IssueSession(context.Background(), h.account)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/favorites/"+vehicleID, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session.ID})
	req.AddCookie(&http.Cookie{Name: middleware.FlashCookie, Value: clientID})

	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)
	c.SetParamNames("vehicleID")
	c.SetParamValues(vehicleID)
	if err := h.resolver.Middleware()(h.handler.Remove)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRemoveFavorite_ExistingEntry(t *testing.T) {
	h := newFavHarness()
	h.stub.saved[favKey(h.account.ID, "veh_1")] = true

	rec := h.remove(t, "veh_1", "fv_1")

	redirectTarget(t, rec, favoritesPath)
	if h.stub.saved[favKey(h.account.ID, "veh_1")] {
		t.Fatalf("entry must be gone after removal")
	}
	msgs := h.flash.byClient["fv_1"]["success"]
	if len(msgs) != 1 || msgs[0] != "Vehicle removed from favorites." {
		t.Fatalf("expected a removal notice, got %v", msgs)
	}
}

func TestRemoveFavorite_NothingMatchedIsNotASuccess(t *testing.T) {
	h := newFavHarness()

	rec := h.remove(t, "veh_never_saved", "fv_2")

	redirectTarget(t, rec, favoritesPath)
	if msgs := h.flash.byClient["fv_2"]["success"]; len(msgs) != 0 {
		t.Fatalf("an unmatched delete must not read as a removal, got %v", msgs)
	}
	msgs := h.flash.byClient["fv_2"]["info"]
	if len(msgs) != 1 || msgs[0] != "That vehicle was not in your favorites." {
		t.Fatalf("expected the not-in-favorites notice, got %v", msgs)
	}
}
