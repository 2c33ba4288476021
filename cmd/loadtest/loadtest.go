// Command loadtest drives concurrent like toggles against a running Warbler
// server and checks that the like count ends where it started.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/johndosdos/warbler/internal/auth"
)

var (
	likeFormRe  = regexp.MustCompile(`action="/messages/(\d+)/like"`)
	likeCountRe = regexp.MustCompile(`<span class="like-count">(\d+)</span>`)
)

// errDenied is returned when the server answered with the guard's notice
// instead of the requested page.
var errDenied = errors.New("access unauthorized")

type options struct {
	addr        string
	users       int
	toggles     int
	concurrency int
	insecure    bool
}

// session is one logged-in user with its own cookie jar.
type session struct {
	name   string
	client *http.Client
}

// page is the final response after redirects.
type page struct {
	path string
	body string
}

type stats struct {
	mu        sync.Mutex
	latencies []time.Duration
	failures  int
}

func (s *stats) record(d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failures++
		return
	}
	s.latencies = append(s.latencies, d)
}

func (s *stats) percentile(p float64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.latencies) == 0 {
		return 0
	}
	sorted := slices.Clone(s.latencies)
	slices.Sort(sorted)
	return sorted[int(float64(len(sorted)-1)*p)]
}

// result summarizes one run.
type result struct {
	requests    int
	failures    int
	likesBefore int
	likesAfter  int
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", "https://localhost:8080", "server base URL; session cookies are Secure, so use https")
	flag.IntVar(&opts.users, "users", 10, "number of users to sign up; signups are rate limited per IP")
	flag.IntVar(&opts.toggles, "toggles", 50, "like toggles per user; keep it even so the count returns to its start")
	flag.IntVar(&opts.concurrency, "concurrency", 8, "maximum users toggling at once")
	flag.BoolVar(&opts.insecure, "insecure", false, "skip TLS certificate verification")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if _, err := run(context.Background(), opts); err != nil {
		log.Fatalf("loadtest failed: %v", err)
	}
}

// run signs up the users, then lets every user toggle the same message. A
// user's own toggles are sent one after another so each one flips the like;
// users run concurrently with each other.
func run(ctx context.Context, opts options) (result, error) {
	if opts.users < 1 {
		return result{}, fmt.Errorf("need at least one user")
	}

	sessions := make([]*session, opts.users)
	for i := range sessions {
		s, err := signup(ctx, opts)
		if err != nil {
			return result{}, err
		}
		sessions[i] = s
	}
	slog.Info("users signed up", "count", len(sessions))

	msgID, err := postMessage(ctx, opts, sessions[0])
	if err != nil {
		return result{}, err
	}

	before, err := likeCount(ctx, opts, sessions[0], msgID)
	if err != nil {
		return result{}, err
	}

	var st stats
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))

	start := time.Now()
	for _, s := range sessions {
		g.Go(func() error {
			for range opts.toggles {
				t0 := time.Now()
				_, err := do(gctx, s.client, http.MethodPost, opts.addr+"/messages/"+msgID+"/like", nil)
				st.record(time.Since(t0), err)
				if err != nil {
					slog.Warn("like toggle failed", "user", s.name, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	after, err := likeCount(ctx, opts, sessions[0], msgID)
	if err != nil {
		return result{}, err
	}

	res := result{
		requests:    opts.users * opts.toggles,
		failures:    st.failures,
		likesBefore: before,
		likesAfter:  after,
	}
	slog.Info("like toggles finished",
		"requests", res.requests,
		"failures", res.failures,
		"elapsed", elapsed,
		"rps", float64(res.requests)/elapsed.Seconds(),
		"p50", st.percentile(0.50),
		"p95", st.percentile(0.95),
		"likes_before", before,
		"likes_after", after)

	if res.failures > 0 {
		return res, fmt.Errorf("%d of %d like toggles failed", res.failures, res.requests)
	}
	if opts.toggles%2 == 0 && before != after {
		return res, fmt.Errorf("like count drifted from %d to %d", before, after)
	}
	return res, nil
}

func newClient(opts options) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = opts.concurrency
	if opts.insecure {
		//nolint:gosec
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{Jar: jar, Transport: transport, Timeout: 30 * time.Second}, nil
}

// signup creates a user and checks that the server logged it in. A rejected
// signup re-renders the form or bounces back to it with a notice.
func signup(ctx context.Context, opts options) (*session, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	name := "load_" + uuid.NewString()[:8]
	form := url.Values{
		"username": {name},
		"email":    {name + "@example.com"},
		"password": {"loadtest-password"},
	}
	p, err := do(ctx, client, http.MethodPost, opts.addr+"/signup", form)
	if err != nil {
		return nil, fmt.Errorf("signup %s: %w", name, err)
	}
	if p.path != "/" {
		return nil, fmt.Errorf("signup %s: ended on %s instead of the home page", name, p.path)
	}

	u, err := url.Parse(opts.addr)
	if err != nil {
		return nil, fmt.Errorf("signup %s: %w", name, err)
	}
	hasSession := slices.ContainsFunc(client.Jar.Cookies(u), func(c *http.Cookie) bool {
		return c.Name == auth.SessionCookie && c.Value != ""
	})
	if !hasSession {
		return nil, fmt.Errorf("signup %s: no session cookie was set", name)
	}

	return &session{name: name, client: client}, nil
}

// postMessage creates a warble and returns its id, read back from the like
// form on the author's profile.
func postMessage(ctx context.Context, opts options, s *session) (string, error) {
	form := url.Values{"text": {"load test warble " + time.Now().Format(time.RFC3339)}}
	p, err := do(ctx, s.client, http.MethodPost, opts.addr+"/messages/new", form)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	m := likeFormRe.FindStringSubmatch(p.body)
	if m == nil {
		return "", fmt.Errorf("post message: no message id on profile page")
	}
	return m[1], nil
}

func likeCount(ctx context.Context, opts options, s *session, msgID string) (int, error) {
	p, err := do(ctx, s.client, http.MethodGet, opts.addr+"/messages/"+msgID, nil)
	if err != nil {
		return 0, err
	}
	m := likeCountRe.FindStringSubmatch(p.body)
	if m == nil {
		return 0, fmt.Errorf("no like count on message %s", msgID)
	}
	return strconv.Atoi(m[1])
}

// do sends one request and follows redirects. A non-200 final status or a
// page carrying the guard's notice is an error.
func do(ctx context.Context, client *http.Client, method, target string, form url.Values) (page, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return page{}, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return page{}, err
	}
	p := page{path: resp.Request.URL.Path, body: string(b)}

	if resp.StatusCode != http.StatusOK {
		return p, fmt.Errorf("%s %s: status %d", method, p.path, resp.StatusCode)
	}
	if strings.Contains(p.body, auth.UnauthorizedNotice) {
		return p, fmt.Errorf("%s %s: %w", method, target, errDenied)
	}
	return p, nil
}
