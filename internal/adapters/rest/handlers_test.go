package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"six-cities/internal/adapters/notifier"
	"six-cities/internal/adapters/tokenstorage"
	"six-cities/internal/contextkeys"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/session"
	"six-cities/internal/core/store"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI - бэкенд в памяти, общий для всех сессий теста.
type fakeAPI struct {
	mu          sync.Mutex
	offers      []domain.Offer
	favorites   map[string]bool
	offersCalls atomic.Int32

	// sessionUser - пользователь, которого бэкенд узнаёт по токену; nil - 401
	sessionUser *domain.AuthInfo
	authDelay   time.Duration
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		offers: []domain.Offer{
			testOffer("1", domain.CityParis, 300, 4.1),
			testOffer("2", domain.CityParis, 100, 4.9),
			testOffer("3", domain.CityAmsterdam, 200, 3.0),
		},
		favorites: map[string]bool{},
	}
}

func testOffer(id string, city domain.CityName, price int, rating float64) domain.Offer {
	return domain.Offer{
		ID:     id,
		Title:  "Offer " + id,
		Type:   "apartment",
		Price:  price,
		Rating: rating,
		City:   domain.City{Name: city, Location: domain.Location{Latitude: 48.85, Longitude: 2.35, Zoom: 10}},
		Location: domain.Location{
			Latitude:  48.85 + float64(price)/10000,
			Longitude: 2.35,
			Zoom:      8,
		},
	}
}

func (f *fakeAPI) GetOffers(ctx context.Context) ([]domain.Offer, error) {
	f.offersCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Offer(nil), f.offers...), nil
}

func (f *fakeAPI) find(offerID string) (domain.Offer, bool) {
	for _, o := range f.offers {
		if o.ID == offerID {
			o.IsFavorite = f.favorites[o.ID]
			return o, true
		}
	}
	return domain.Offer{}, false
}

func (f *fakeAPI) GetOffer(ctx context.Context, offerID string) (*domain.OfferDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	offer, ok := f.find(offerID)
	if !ok {
		return nil, &domain.RequestError{StatusCode: http.StatusNotFound, Message: "Offer not found"}
	}
	return &domain.OfferDetails{Offer: offer, Description: "Nice place"}, nil
}

func (f *fakeAPI) GetNearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error) {
	if offerID == "missing" {
		return nil, &domain.RequestError{StatusCode: http.StatusNotFound}
	}
	return []domain.Offer{testOffer("9", domain.CityParis, 50, 2)}, nil
}

func (f *fakeAPI) GetComments(ctx context.Context, offerID string) ([]domain.Review, error) {
	return []domain.Review{{ID: "r1", Rating: 4, Comment: "ok", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}}, nil
}

func (f *fakeAPI) PostComment(ctx context.Context, offerID string, data domain.CommentData) (*domain.Review, error) {
	return &domain.Review{ID: "r2", Rating: data.Rating, Comment: data.Comment, Date: time.Now().UTC()}, nil
}

func (f *fakeAPI) GetFavorites(ctx context.Context) ([]domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Offer
	for _, o := range f.offers {
		if f.favorites[o.ID] {
			o.IsFavorite = true
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeAPI) SetFavoriteStatus(ctx context.Context, offerID string, status domain.FavoriteStatus) (*domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[offerID] = status == domain.FavoriteStatusAdded
	offer, ok := f.find(offerID)
	if !ok {
		return nil, &domain.RequestError{StatusCode: http.StatusNotFound}
	}
	return &offer, nil
}

func (f *fakeAPI) CheckAuth(ctx context.Context) (*domain.AuthInfo, error) {
	time.Sleep(f.authDelay)
	if f.sessionUser == nil {
		return nil, &domain.RequestError{StatusCode: http.StatusUnauthorized}
	}
	user := *f.sessionUser
	return &user, nil
}

func (f *fakeAPI) Login(ctx context.Context, credentials domain.Credentials) (*domain.AuthInfo, error) {
	if credentials.Password != "secret1" {
		return nil, &domain.RequestError{StatusCode: http.StatusBadRequest, Message: "Wrong password"}
	}
	return &domain.AuthInfo{Name: "Oliver", Email: credentials.Email, Token: "token-1"}, nil
}

type testEnv struct {
	server *httptest.Server
	client *http.Client
	api    *fakeAPI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := contextkeys.NoopLogger()
	api := newFakeAPI()
	repo := tokenstorage.NewMemoryTokenRepository()

	n := notifier.NewSessionNotifier(logger)
	t.Cleanup(n.Close)

	manager := session.NewManager(func(sessionID string) *store.Store {
		return store.NewStore(store.WithExtra(store.Extra{
			API:    api,
			Tokens: tokenstorage.NewScoped(repo, sessionID),
		}))
	}, n, logger, time.Hour)

	cfg := ServerConfig{
		AllowedOrigins:    []string{"http://localhost:5173"},
		SessionCookieName: "six_cities_session",
		SessionCookieTTL:  time.Hour,
	}
	server := httptest.NewServer(NewRouter(cfg, manager, n, logger))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{server: server, client: &http.Client{Jar: jar}, api: api}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+"/api/v1"+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func offerIDs(t *testing.T, payload map[string]interface{}) []string {
	t.Helper()
	raw, ok := payload["offers"].([]interface{})
	require.True(t, ok, "offers must be a list")
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		ids = append(ids, item.(map[string]interface{})["id"].(string))
	}
	return ids
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/auth/login", `{"email":"oliver@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "AUTH", body["authorizationStatus"])
}

func TestMainPage_FetchesOnceAndFiltersByCity(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/main/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Paris", body["cityTab"])
	assert.Equal(t, []string{"1", "2"}, offerIDs(t, body))
	assert.Len(t, body["cities"], len(domain.Cities))
	assert.Len(t, body["sortingOptions"], len(domain.SortingTypes))
	assert.Len(t, body["points"], 2)

	// повторный заход той же сессии не ходит на бэкенд
	_, _ = env.do(t, http.MethodGet, "/main/", "")
	assert.Equal(t, int32(1), env.api.offersCalls.Load())

	_, _ = env.do(t, http.MethodGet, "/main/?refresh=1", "")
	assert.Equal(t, int32(2), env.api.offersCalls.Load())
}

func TestMainPage_ChangeCityAndSorting(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodGet, "/main/", "")

	resp, body := env.do(t, http.MethodPut, "/main/sorting", `{"sorting":"price-low-to-high"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"2", "1"}, offerIDs(t, body))

	resp, body = env.do(t, http.MethodPut, "/main/city", `{"city":"Amsterdam"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Amsterdam", body["cityTab"])
	assert.Equal(t, []string{"3"}, offerIDs(t, body))
}

func TestMainPage_RejectsUnknownValues(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPut, "/main/city", `{"city":"Berlin"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "Berlin")

	resp, _ = env.do(t, http.MethodPut, "/main/sorting", `{"sorting":"cheapest"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/main/sorting", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionCookie_IsIssuedAndReused(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/auth/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	first := cookies[0].Value

	resp, _ = env.do(t, http.MethodGet, "/auth/", "")
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, first, resp.Cookies()[0].Value)
}

func TestPrivateRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/favorites/", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", body["redirect"])

	resp, _ = env.do(t, http.MethodPost, "/favorites/1/1", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/offers/1/comments", `{"rating":5,"comment":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_FailureAndSuccess(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/auth/login", `{"email":"oliver@example.com","password":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and password are required", body["error"])

	resp, body = env.do(t, http.MethodPost, "/auth/login", `{"email":"oliver@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Wrong password", body["error"])

	env.login(t)
	_, body = env.do(t, http.MethodGet, "/auth/", "")
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "oliver@example.com", user["email"])
	assert.NotContains(t, user, "token")

	resp, body = env.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "NO_AUTH", body["authorizationStatus"])
}

func TestFavorites_ToggleUpdatesAllViews(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, _ = env.do(t, http.MethodGet, "/main/", "")

	resp, _ := env.do(t, http.MethodPost, "/favorites/2/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := env.do(t, http.MethodGet, "/favorites/", "")
	assert.Equal(t, float64(1), body["count"])

	_, header := env.do(t, http.MethodGet, "/auth/", "")
	assert.Equal(t, float64(1), header["favoritesCount"])

	_, main := env.do(t, http.MethodGet, "/main/", "")
	for _, item := range main["offers"].([]interface{}) {
		offer := item.(map[string]interface{})
		assert.Equal(t, offer["id"] == "2", offer["isFavorite"], "offer %v", offer["id"])
	}

	resp, _ = env.do(t, http.MethodPost, "/favorites/2/7", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOfferPage(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/offers/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	offer := body["offer"].(map[string]interface{})
	assert.Equal(t, "1", offer["id"])
	assert.Len(t, body["nearbyOffers"], 1)
	assert.Len(t, body["comments"], 1)
	assert.Len(t, body["ratingOptions"], 5)
	assert.Equal(t, false, body["canReview"])

	resp, body = env.do(t, http.MethodGet, "/offers/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Offer not found", body["error"])
}

func TestPostComment_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, _ = env.do(t, http.MethodGet, "/offers/1", "")

	resp, _ := env.do(t, http.MethodPost, "/offers/1/comments", `{"rating":0,"comment":"`+strings.Repeat("a", 60)+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/offers/1/comments", `{"rating":4,"comment":"too short"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 50 символов кириллицы - это 100 байт, но проходит проверку
	comment := strings.Repeat("я", 50)
	resp, body := env.do(t, http.MethodPost, "/offers/1/comments", fmt.Sprintf(`{"rating":4,"comment":%q}`, comment))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	review := body["review"].(map[string]interface{})
	assert.Equal(t, comment, review["comment"])
	assert.Len(t, body["comments"], 2)

	_, page := env.do(t, http.MethodGet, "/offers/1", "")
	assert.Equal(t, true, page["canReview"])
}

func TestValidateComment(t *testing.T) {
	assert.NoError(t, validateComment(CommentRequest{Rating: 1, Comment: strings.Repeat("a", 50)}))
	assert.NoError(t, validateComment(CommentRequest{Rating: 5, Comment: strings.Repeat("a", 300)}))
	assert.Error(t, validateComment(CommentRequest{Rating: 6, Comment: strings.Repeat("a", 50)}))
	assert.Error(t, validateComment(CommentRequest{Rating: 3, Comment: strings.Repeat("a", 301)}))
	assert.Error(t, validateComment(CommentRequest{Rating: 3, Comment: strings.Repeat(" ", 60)}))
}

func TestStatusForRejection(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForRejection(&store.RejectedError{Err: &domain.RequestError{StatusCode: 404}}))
	assert.Equal(t, http.StatusBadGateway, statusForRejection(&store.RejectedError{Err: &domain.RequestError{StatusCode: 503}}))
	assert.Equal(t, http.StatusBadGateway, statusForRejection(fmt.Errorf("dial tcp: refused")))
}

func TestEvents_StreamsInitialViews(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.server.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var events []string
	for len(events) < 3 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event: ")))
		}
	}
	assert.Equal(t, []string{"connected", session.EventHeader, session.EventMainPage}, events)
}

func TestWebSocket_PushesViewUpdates(t *testing.T) {
	env := newTestEnv(t)
	// сессия создаётся первым запросом, cookie берём из jar
	_, _ = env.do(t, http.MethodGet, "/auth/", "")

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/ws"
	header := http.Header{}
	for _, c := range env.client.Jar.Cookies(mustParseURL(t, env.server.URL)) {
		header.Add("Cookie", c.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	read := func() wsMessage {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}
	assert.Equal(t, session.EventHeader, read().Type)
	assert.Equal(t, session.EventMainPage, read().Type)

	// смена города пересчитывает главную страницу и приходит в сокет;
	// до неё могут прийти события, созданные ещё до подключения
	_, _ = env.do(t, http.MethodPut, "/main/city", `{"city":"Hamburg"}`)
	for i := 0; i < 5; i++ {
		msg := read()
		if msg.Type != session.EventMainPage {
			continue
		}
		var vm store.MainPageViewModel
		require.NoError(t, json.Unmarshal(msg.Data, &vm))
		if vm.CityTab == domain.CityHamburg {
			return
		}
	}
	t.Fatal("main page update for Hamburg was not pushed")
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(r))
	r.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, check(r))
	r.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(r))
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestLoggerMiddleware_TraceID(t *testing.T) {
	var seen string
	handler := LoggerMiddleware(contextkeys.NoopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextkeys.TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	incoming := "3f1c2a8e-7d4b-4c1e-9a2f-5b6c7d8e9f00"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceHeader, incoming)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, incoming, seen)
	assert.Equal(t, incoming, rec.Header().Get(traceHeader))

	// не-uuid заменяется новым идентификатором
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceHeader, "<script>")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", seen)
	assert.Equal(t, seen, rec.Header().Get(traceHeader))
}

func TestHealth_ReportsSessions(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodGet, "/auth/", "")

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["sessions"])
}

func TestSessionMiddleware_ConcurrentRequestsWaitForAuthCheck(t *testing.T) {
	env := newTestEnv(t)
	env.api.sessionUser = &domain.AuthInfo{Name: "Oliver", Email: "oliver@example.com", Token: "token-1"}
	env.api.authDelay = 50 * time.Millisecond

	cookie := &http.Cookie{Name: "six_cities_session", Value: "0b9a3c1e-5f2d-4e8a-9c7b-1d2e3f4a5b6c"}
	statuses := make([]int, 4)
	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/v1/favorites/", nil)
			if err != nil {
				return
			}
			req.AddCookie(cookie)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
}
