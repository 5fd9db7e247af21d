package gateway

import (
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
	"github.com/jacl-coder/EpicGame-Server/internal/view"
)

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<nav><a href="/">Mint</a> | <a href="/arena">Arena</a></nav>
{{if not .Available}}<p class="unavailable">Chain integration unavailable.</p>{{end}}
{{template "content" .}}
</body>
</html>{{end}}`

const rosterHTML = `{{define "content"}}<h2>Mint Your Hero. Choose wisely.</h2>
<div class="select-grid">
{{range .Entries}}<div class="character-item">
  <div class="name-container"><p>{{.Name}}</p></div>
  <img src="{{.ImageURI}}" alt="{{.Name}}">
  <form method="post" action="/api/characters/{{.Index}}/mint">
    <button type="submit" class="character-mint-button">{{.MintLabel}}</button>
  </form>
</div>
{{end}}</div>{{end}}`

const arenaHTML = `{{define "content"}}{{with .Boss}}<div class="boss-container">
  <h2>🔥 {{.Name}} 🔥</h2>
  <img src="{{.ImageURI}}" alt="Boss {{.Name}}">
  <div class="health-bar">
    <progress value="{{.Hp}}" max="{{.MaxHp}}"></progress>
    <p>{{.Hp}} / {{.MaxHp}} HP</p>
  </div>
  <p>Attack Damage: {{.AttackDamage}}</p>
  <p>Live updates: /game/ws</p>
</div>{{end}}{{end}}`

var (
	rosterPage = template.Must(template.Must(template.New("roster").Parse(layoutHTML)).Parse(rosterHTML))
	arenaPage  = template.Must(template.Must(template.New("arena").Parse(layoutHTML)).Parse(arenaHTML))
)

type rosterPageData struct {
	Title     string
	Available bool
	Entries   []view.RosterEntry
}

type arenaPageData struct {
	Title     string
	Available bool
	Boss      *models.Character
}

// PageHandler HTML 页面
type PageHandler struct {
	factory chain.Factory
}

// NewPageHandler 创建页面处理器
func NewPageHandler(factory chain.Factory) *PageHandler {
	return &PageHandler{factory: factory}
}

// RegisterHandlers 注册HTTP处理器
func (h *PageHandler) RegisterHandlers(r chi.Router) {
	r.Get("/", h.handleRoster)
	r.Get("/arena", h.handleArena)
}

// handleRoster 角色选择页，客户端不可用时渲染空列表
func (h *PageHandler) handleRoster(w http.ResponseWriter, r *http.Request) {
	roster := view.NewRoster(r.Context(), h.factory)
	defer roster.Close()

	if !awaitMount(r.Context(), roster.Mount()) {
		return
	}

	render(w, rosterPage, rosterPageData{
		Title:     "Select Character",
		Available: roster.Ready(),
		Entries:   roster.Entries(),
	})
}

// handleArena 竞技场页
func (h *PageHandler) handleArena(w http.ResponseWriter, r *http.Request) {
	arena := view.NewArena(r.Context(), h.factory)
	defer arena.Close()

	if !awaitMount(r.Context(), arena.Mount()) {
		return
	}

	data := arenaPageData{Title: "Arena", Available: arena.Ready()}
	if boss, ok := arena.Boss(); ok {
		data.Boss = &boss
	}
	render(w, arenaPage, data)
}

func render(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("渲染页面失败: %v", err)
	}
}
