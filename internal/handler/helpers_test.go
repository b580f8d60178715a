package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/inkblog/internal/auth"
	"github.com/olegiv/inkblog/internal/mail"
	"github.com/olegiv/inkblog/internal/middleware"
	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/render"
	"github.com/olegiv/inkblog/internal/service"
	"github.com/olegiv/inkblog/internal/testutil"
	"github.com/olegiv/inkblog/web"
)

// fakeSender records messages instead of talking to a relay.
type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testEnv struct {
	server   *httptest.Server
	posts    *service.PostService
	comments *service.CommentService
	events   *service.EventService
	outbox   *mail.Outbox
	sender   *fakeSender
}

type envOption func(*envConfig)

type envConfig struct {
	policy   model.CommentPolicy
	mailFrom string
	mailTo   string
	queued   bool
}

func withPolicy(p model.CommentPolicy) envOption {
	return func(c *envConfig) { c.policy = p }
}

func withoutMail() envOption {
	return func(c *envConfig) { c.mailFrom, c.mailTo = "", "" }
}

func withMailQueue() envOption {
	return func(c *envConfig) { c.queued = true }
}

// newTestEnv wires the handlers onto a router with the same middleware
// order as the server, minus CSRF and the outer chi middleware.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{
		policy:   model.CommentsRetain,
		mailFrom: "blog@example.com",
		mailTo:   "owner@example.com",
	}
	for _, o := range opts {
		o(&cfg)
	}

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	logger := testutil.TestLoggerSilent()

	sm := scs.New()
	sm.Store = memstore.New()

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub templates: %v", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	events := service.NewEventService(db)
	accounts := service.NewAccountService(db, events, logger).
		WithHasher(auth.Hasher{Iterations: 1000, SaltLength: auth.DefaultSaltLength})
	posts := service.NewPostService(db, cfg.policy, events, logger)
	comments := service.NewCommentService(db, logger)

	sender := &fakeSender{}
	var outbox *mail.Outbox
	if cfg.queued {
		outbox = mail.NewOutbox(db, sender, "", logger)
	}
	notifier := mail.NewNotifier(cfg.mailFrom, cfg.mailTo, sender, outbox, logger)

	content, err := fs.Sub(web.Content, "content")
	if err != nil {
		t.Fatalf("fs.Sub content: %v", err)
	}
	pagesHandler, err := NewPagesHandler(renderer, notifier, content)
	if err != nil {
		t.Fatalf("NewPagesHandler: %v", err)
	}

	authHandler := NewAuthHandler(accounts, renderer, sm)
	postsHandler := NewPostsHandler(posts, comments, renderer)
	healthHandler := NewHealthHandler(db, "", outbox, events, "test")

	r := chi.NewRouter()
	r.Use(chimw.GetHead)
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadIdentity(sm, accounts))

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Get(RouteRoot, postsHandler.Index)
	r.Get(RouteRegister, authHandler.RegisterForm)
	r.Post(RouteRegister, authHandler.Register)
	r.Get(RouteLogin, authHandler.LoginForm)
	r.Post(RouteLogin, authHandler.Login)
	r.Get(RouteLogout, authHandler.Logout)
	r.Get(RoutePostID, postsHandler.Show)
	r.Post(RoutePostID, postsHandler.AddComment)
	r.Get(RouteAbout, pagesHandler.About)
	r.Get(RouteContact, pagesHandler.ContactForm)
	r.Post(RouteContact, pagesHandler.Contact)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner(events))
		r.Get(RouteNewPost, postsHandler.NewForm)
		r.Post(RouteNewPost, postsHandler.Create)
		r.Get(RouteEditPostID, postsHandler.EditForm)
		r.Post(RouteEditPostID, postsHandler.Update)
		r.Get(RouteDeletePostID, postsHandler.Delete)
		r.Head(RouteDeletePostID, GetOnly)
	})

	r.NotFound(NotFound(renderer))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:   srv,
		posts:    posts,
		comments: comments,
		events:   events,
		outbox:   outbox,
		sender:   sender,
	}
}

// client is a browser with its own cookie jar that does not follow redirects.
type client struct {
	t    *testing.T
	env  *testEnv
	http *http.Client
}

func (e *testEnv) newClient(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &client{
		t:   t,
		env: e,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	Code     int
	Location string
	Header   http.Header
	Body     string
}

func (c *client) do(method, path string, form url.Values) response {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.env.server.URL+path, body)
	if err != nil {
		c.t.Fatalf("NewRequest: %v", err)
	}
	if form != nil {
		req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading body: %v", err)
	}
	return response{Code: resp.StatusCode, Location: resp.Header.Get("Location"), Header: resp.Header, Body: string(b)}
}

func (c *client) get(path string) response {
	c.t.Helper()
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) response {
	c.t.Helper()
	return c.do(http.MethodPost, path, form)
}

// register signs up and stays logged in.
func (c *client) register(name, email, password string) {
	c.t.Helper()
	resp := c.post(RouteRegister, url.Values{"name": {name}, "email": {email}, "password": {password}})
	if resp.Code != http.StatusSeeOther {
		c.t.Fatalf("register %s: status %d, body %s", email, resp.Code, resp.Body)
	}
}

func (c *client) login(email, password string) response {
	c.t.Helper()
	return c.post(RouteLogin, url.Values{"email": {email}, "password": {password}})
}

// newOwner registers the first account, which becomes the owner.
func (e *testEnv) newOwner(t *testing.T) *client {
	t.Helper()
	c := e.newClient(t)
	c.register("Ann", "ann@x.com", "p1")
	return c
}

func postForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://images.example.com/cover.jpg"},
		"body":     {"<p>Hello world</p>"},
	}
}

func assertStatus(t *testing.T, resp response, want int) {
	t.Helper()
	if resp.Code != want {
		t.Fatalf("status = %d, want %d; body:\n%s", resp.Code, want, resp.Body)
	}
}

func assertRedirect(t *testing.T, resp response, location string) {
	t.Helper()
	if resp.Code != http.StatusSeeOther || resp.Location != location {
		t.Fatalf("got %d -> %q, want 303 -> %q", resp.Code, resp.Location, location)
	}
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}
