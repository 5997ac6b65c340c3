package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/mux"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/build"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/cms"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/config"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/index"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/legal"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/render"
)

// Server is the dev server: it keeps the ingested content in memory, serves
// the same routes the static build writes out, and rebuilds on file changes.
type Server struct {
	cfg config.Config
	cms *cms.Client

	indexPath string
	idx       *index.Store
	md        *render.MarkdownRenderer
	tpl       render.Renderer

	mu       sync.RWMutex
	posts    []content.Post
	bySlug   map[string]content.Post
	legal    *legal.Collection
	remote   bool
	manifest legal.Manifest

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, client *cms.Client, indexPath string) (*Server, error) {
	md := render.NewMarkdownRenderer()
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		cms:       client,
		indexPath: indexPath,
		idx:       st,
		md:        md,
		tpl:       tpl,
		bySlug:    make(map[string]content.Post),
		sseConns:  make(map[chan string]struct{}),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)

	r.HandleFunc("/", s.handleHome).Methods("GET")
	r.HandleFunc("/blog", s.handleBlogIndex).Methods("GET")
	r.HandleFunc("/blog/{slug}", s.handleBlogPost).Methods("GET")
	r.HandleFunc("/legal", s.handleLegalIndex).Methods("GET")
	r.HandleFunc("/legal/versions.json", s.handleLegalManifest).Methods("GET")
	r.HandleFunc("/legal/{slug}", s.handleLegalDoc).Methods("GET")

	// dev live reload
	r.HandleFunc("/dev/events", s.handleSSE)

	staticDir := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme, "static")
	fileServer := http.FileServer(http.Dir(staticDir))
	for _, prefix := range []string{"/css/", "/js/", "/images/", "/favicon.ico"} {
		r.PathPrefix(prefix).Handler(fileServer)
	}

	r.NotFoundHandler = RequestID(Logger(http.HandlerFunc(s.handleNotFound)))

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) rebuild(ctx context.Context) error {
	posts, remote, warns, err := build.LoadPosts(ctx, s.cfg, s.cms)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	for _, w := range warns {
		log.Printf("[warn] %s: %s", w.Path, w.Msg)
	}

	docs, err := legal.LoadDocuments(s.cfg.Build.LegalDir)
	if err != nil {
		return fmt.Errorf("load legal documents: %w", err)
	}

	if err := s.idx.Rebuild(posts); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	bySlug := make(map[string]content.Post, len(posts))
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		bySlug[p.Slug] = p
	}

	s.mu.Lock()
	s.posts = posts
	s.bySlug = bySlug
	s.legal = docs
	s.remote = remote
	s.manifest = docs.Manifest()
	s.mu.Unlock()

	log.Printf("[serve] rebuilt: %d articles (remote=%v), %d legal documents",
		len(posts), remote, docs.Len())
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		for _, dir := range []string{s.cfg.Build.ContentDir, s.cfg.Build.LegalDir} {
			e := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return w.Add(path)
				}
				return nil
			})
			if e != nil {
				err = e
				return
			}
		}
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching for file changes ...")
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.rebuild(ctx2); err != nil {
				log.Printf("[serve] rebuild error: %v", err)
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	posts := s.posts
	docs := s.legal
	s.mu.RUnlock()

	latest := posts
	if len(latest) > 3 {
		latest = latest[:3]
	}

	links := make([]render.LegalLink, 0, docs.Len())
	for _, d := range docs.Documents() {
		links = append(links, render.LegalLink{Slug: d.ID, Title: d.Title})
	}

	page := render.HomePage{
		Site:        s.cfg.Site,
		LatestPosts: latest,
		LegalLinks:  links,
		Generated:   time.Now(),
		Title:       s.cfg.Site.Title,
	}
	htmlBytes, err := s.tpl.RenderHome(r.Context(), page)
	if err != nil {
		log.Printf("render home error: %v", err)
		http.Error(w, "render home error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleBlogIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	posts := s.posts
	remote := s.remote
	s.mu.RUnlock()

	if !remote {
		// bundled articles come back newest-first from the index; remote
		// lists keep the service's own ordering
		if listed, err := s.idx.ListAll(index.SortPublished); err == nil {
			posts = listed
		}
	}

	page := render.BlogListPage{
		Site:         s.cfg.Site,
		Posts:        posts,
		RemoteSource: remote,
		Generated:    time.Now(),
		Title:        "Blog",
	}
	if !remote {
		page.Note = "showing bundled articles"
	}
	htmlBytes, err := s.tpl.RenderBlogList(r.Context(), page)
	if err != nil {
		log.Printf("render blog list error: %v", err)
		http.Error(w, "render blog list error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	s.mu.RLock()
	p, ok := s.bySlug[slug]
	s.mu.RUnlock()
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	res, err := s.md.Render([]byte(p.Content))
	if err != nil {
		log.Printf("markdown render error: %v", err)
		http.Error(w, "markdown render error", http.StatusInternalServerError)
		return
	}

	pp := render.BlogPostPage{
		Site:  s.cfg.Site,
		Post:  p,
		HTML:  template.HTML(res.HTML),
		TOC:   res.Headings,
		Title: p.Title,
	}
	htmlBytes, err := s.tpl.RenderBlogPost(r.Context(), pp)
	if err != nil {
		log.Printf("render post error: %v", err)
		http.Error(w, "render post error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleLegalIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	docs := s.legal
	s.mu.RUnlock()

	links := make([]render.LegalLink, 0, docs.Len())
	for _, d := range docs.Documents() {
		links = append(links, render.LegalLink{Slug: d.ID, Title: d.Title})
	}

	page := render.LegalListPage{
		Site:  s.cfg.Site,
		Docs:  links,
		Title: "Legal",
	}
	htmlBytes, err := s.tpl.RenderLegalList(r.Context(), page)
	if err != nil {
		log.Printf("render legal list error: %v", err)
		http.Error(w, "render legal list error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleLegalDoc(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	s.mu.RLock()
	docs := s.legal
	s.mu.RUnlock()

	d, ok := docs.Get(slug)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	page := render.LegalDocPage{
		Site:        s.cfg.Site,
		Slug:        d.ID,
		Version:     d.Version,
		LastUpdated: d.LastUpdated,
		HTML:        template.HTML(d.HTML),
		Title:       d.Title,
	}
	htmlBytes, err := s.tpl.RenderLegalDoc(r.Context(), page)
	if err != nil {
		log.Printf("render legal doc error: %v", err)
		http.Error(w, "render legal doc error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleLegalManifest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	m := s.manifest
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(m)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := render.NotFoundPage{
		Site: s.cfg.Site,
		Path: r.URL.Path,
	}
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), page)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	writeHTML(w, htmlBytes)
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
