package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/service"
)

// ── shared fakes ─────────────────────────────────────────────────────────────

type fakeSessionStore struct {
	sessions map[string]*domain.Session
	getErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionStore) Put(_ context.Context, s *domain.Session) error {
	clone := *s
	f.sessions[s.ID] = &clone
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	clone.ID = id
	return &clone, nil
}

func (f *fakeSessionStore) Touch(_ context.Context, id string, expiresAt time.Time) error {
	if s, ok := f.sessions[id]; ok {
		s.ExpiresAt = expiresAt
	}
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.sessions[id]; !ok {
		return false, nil
	}
	delete(f.sessions, id)
	return true, nil
}

func (f *fakeSessionStore) DeleteAll(_ context.Context, accountID string) (int, error) {
	removed := 0
	for id, s := range f.sessions {
		if s.AccountID == accountID {
			delete(f.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type fakeFlashStore struct {
	byClient map[string]map[string][]string
}

func newFakeFlashStore() *fakeFlashStore {
	return &fakeFlashStore{byClient: make(map[string]map[string][]string)}
}

func (f *fakeFlashStore) Notify(_ context.Context, clientID, category, text string) error {
	if f.byClient[clientID] == nil {
		f.byClient[clientID] = make(map[string][]string)
	}
	f.byClient[clientID][category] = append(f.byClient[clientID][category], text)
	return nil
}

func (f *fakeFlashStore) Drain(_ context.Context, clientID string, categories ...string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, cat := range categories {
		if msgs := f.byClient[clientID][cat]; len(msgs) > 0 {
			out[cat] = msgs
			delete(f.byClient[clientID], cat)
		}
	}
	return out, nil
}

type stubAccounts struct {
	byID    map[string]*domain.Account
	failErr error
}

func (s *stubAccounts) Register(context.Context, string, string, string, string) (*domain.Account, error) {
	panic("not used")
}

func (s *stubAccounts) Authenticate(context.Context, string, string) (*domain.Account, error) {
	panic("not used")
}

func (s *stubAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	if a, ok := s.byID[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccounts) UpdateProfile(context.Context, string, string, string, string) (*domain.Account, error) {
	panic("not used")
}

func (s *stubAccounts) UpdatePassword(context.Context, string, string) error {
	panic("not used")
}

// ── test harness ─────────────────────────────────────────────────────────────

type harness struct {
	e        *echo.Echo
	resolver *Resolver
	issuer   *service.Issuer
	sessions *fakeSessionStore
	flash    *fakeFlashStore
	accounts *stubAccounts
	account  *domain.Account
}

func newHarness() *harness {
	account := &domain.Account{
		ID:        "acct_1",
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Role:      domain.RoleClient,
	}
	sessions := newFakeSessionStore()
	flash := newFakeFlashStore()
	issuer := service.NewIssuer(sessions, "test-secret", 24*time.Hour, time.Hour, false, zerolog.Nop())
	accounts := &stubAccounts{byID: map[string]*domain.Account{account.ID: account}}
	return &harness{
		e:        echo.New(),
		resolver: NewResolver(accounts, issuer, flash, false, zerolog.Nop()),
		issuer:   issuer,
		sessions: sessions,
		flash:    flash,
		accounts: accounts,
		account:  account,
	}
}

// run sends a request through the resolver into a capture handler and
// returns the identity the handler observed.
func (h *harness) run(t *testing.T, req *http.Request) (domain.Identity, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)

	var seen domain.Identity
	handler := h.resolver.Middleware()(func(c echo.Context) error {
		seen = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return seen, rec
}

func flashCookieReq(req *http.Request, clientID string) *http.Request {
	req.AddCookie(&http.Cookie{Name: FlashCookie, Value: clientID})
	return req
}

// ── resolver state machine ───────────────────────────────────────────────────

func TestResolver_NoCookiesIsAnonymous(t *testing.T) {
	h := newHarness()
	identity, rec := h.run(t, httptest.NewRequest(http.MethodGet, "/", nil))

	if identity.Authenticated {
		t.Fatalf("expected Anonymous, got %+v", identity)
	}
	// A flash-client cookie is minted for anonymous flows.
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a flash client cookie to be set")
	}
}

func TestResolver_SessionCookieAuthenticates(t *testing.T) {
	h := newHarness()
	session, err := h.issuer.IssueSession(context.Background(), h.account)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})
	identity, _ := h.run(t, req)

	if !identity.Authenticated {
		t.Fatalf("expected Authenticated")
	}
	if identity.AccountID != h.account.ID || identity.FirstName != "Ann" || identity.Role != domain.RoleClient {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestResolver_UnknownSessionFallsThroughToBearer(t *testing.T) {
	h := newHarness()
	token, _ := h.issuer.IssueToken(h.account)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "gone"})
	req.AddCookie(&http.Cookie{Name: BearerCookie, Value: token})
	identity, rec := h.run(t, req)

	if !identity.Authenticated {
		t.Fatalf("expected bearer fallback to authenticate")
	}
	if !cookieCleared(rec, SessionCookie) {
		t.Fatalf("stale session cookie should be cleared")
	}
}

func TestResolver_BearerCookieAuthenticates(t *testing.T) {
	h := newHarness()
	token, err := h.issuer.IssueToken(h.account)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: BearerCookie, Value: token})
	identity, _ := h.run(t, req)

	if !identity.Authenticated || identity.AccountID != h.account.ID {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestResolver_TamperedBearerIsAnonymousWithNotice(t *testing.T) {
	h := newHarness()
	token, _ := h.issuer.IssueToken(h.account)
	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 0x01

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: BearerCookie, Value: string(tampered)})
	flashCookieReq(req, "client_a")
	identity, rec := h.run(t, req)

	if identity.Authenticated {
		t.Fatalf("tampered token must resolve to Anonymous")
	}
	if !cookieCleared(rec, BearerCookie) {
		t.Fatalf("bad bearer cookie should be cleared")
	}
	notices := h.flash.byClient["client_a"]["notice"]
	if len(notices) != 1 || notices[0] != FlashExpiredNotice {
		t.Fatalf("expected expiry notice, got %v", notices)
	}
}

func TestResolver_GarbageCookieDoesNotError(t *testing.T) {
	h := newHarness()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: BearerCookie, Value: "not-a-jwt-at-all"})
	flashCookieReq(req, "client_b")

	identity, rec := h.run(t, req)
	if identity.Authenticated {
		t.Fatalf("garbage cookie must be Anonymous")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request must proceed as anonymous, got %d", rec.Code)
	}
}

func TestResolver_SessionSnapshotComesFromStore(t *testing.T) {
	h := newHarness()
	session, _ := h.issuer.IssueSession(context.Background(), h.account)

	// Promotion after the session was issued must be visible immediately.
	h.account.Role = domain.RoleEmployee

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})
	identity, _ := h.run(t, req)

	if identity.Role != domain.RoleEmployee {
		t.Fatalf("identity must reflect the store, got role %s", identity.Role)
	}
}

// runFailing sends a request through the resolver expecting resolution to
// fail; the protected handler must never run.
func (h *harness) runFailing(t *testing.T, req *http.Request) (error, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)

	handler := h.resolver.Middleware()(func(c echo.Context) error {
		t.Fatalf("handler must not run when resolution fails")
		return nil
	})
	return handler(c), rec
}

func TestResolver_AccountStoreFailureDoesNotRevokeSession(t *testing.T) {
	h := newHarness()
	session, err := h.issuer.IssueSession(context.Background(), h.account)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	h.accounts.failErr = errors.New("connection reset by peer")

	req := httptest.NewRequest(http.MethodGet, "/account/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})
	err, rec := h.runFailing(t, req)

	if err == nil {
		t.Fatalf("a store failure must fail the request, not demote it to Anonymous")
	}
	if _, ok := h.sessions.sessions[session.ID]; !ok {
		t.Fatalf("a transient account store failure must not revoke the session")
	}
	if cookieCleared(rec, SessionCookie) {
		t.Fatalf("the session cookie must survive a store failure")
	}
}

func TestResolver_SessionStoreFailureKeepsCookie(t *testing.T) {
	h := newHarness()
	session, err := h.issuer.IssueSession(context.Background(), h.account)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	h.sessions.getErr = errors.New("i/o timeout")

	req := httptest.NewRequest(http.MethodGet, "/account/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})
	err, rec := h.runFailing(t, req)

	if err == nil {
		t.Fatalf("a session store failure must fail the request")
	}
	if cookieCleared(rec, SessionCookie) {
		t.Fatalf("the session cookie must survive a session store failure")
	}

	// The lookup failure must not have destroyed the record either.
	h.sessions.getErr = nil
	if _, ok := h.sessions.sessions[session.ID]; !ok {
		t.Fatalf("the session record must survive a session store failure")
	}
}

// ── outcome channel ──────────────────────────────────────────────────────────

func TestFlash_OneShotDrain(t *testing.T) {
	h := newHarness()
	rec := httptest.NewRecorder()
	req := flashCookieReq(httptest.NewRequest(http.MethodGet, "/", nil), "client_c")
	c := h.e.NewContext(req, rec)

	handler := h.resolver.Middleware()(func(c echo.Context) error {
		Notify(c, "success", "Vehicle added to favorites.")
		Notify(c, "error", "Something else.")

		first := DrainFlash(c)
		if got := first["success"]; len(got) != 1 || got[0] != "Vehicle added to favorites." {
			t.Fatalf("first drain: %v", first)
		}
		if got := first["error"]; len(got) != 1 {
			t.Fatalf("categories are independent, got %v", first)
		}

		second := DrainFlash(c)
		if len(second) != 0 {
			t.Fatalf("second drain must be empty, got %v", second)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestFlash_NoCrossClientLeak(t *testing.T) {
	h := newHarness()

	write := flashCookieReq(httptest.NewRequest(http.MethodGet, "/", nil), "client_x")
	c := h.e.NewContext(write, httptest.NewRecorder())
	handler := h.resolver.Middleware()(func(c echo.Context) error {
		Notify(c, "notice", "only for x")
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	read := flashCookieReq(httptest.NewRequest(http.MethodGet, "/", nil), "client_y")
	c = h.e.NewContext(read, httptest.NewRecorder())
	handler = h.resolver.Middleware()(func(c echo.Context) error {
		if msgs := DrainFlash(c); len(msgs) != 0 {
			t.Fatalf("client_y must not see client_x notices: %v", msgs)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func cookieCleared(rec *httptest.ResponseRecorder, name string) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge < 0 {
			return true
		}
	}
	return false
}
