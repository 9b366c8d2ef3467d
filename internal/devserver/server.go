// Package devserver is a reference emulator of the hosted backend, covering
// exactly the contracts the client core consumes: stats fetch, activity
// submission, relative points increments, like toggles, and a websocket
// change feed. It exists so the client can run and be tested end to end
// without the real service.
package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vikkirkobane/karma-club-sub000/internal/catalog"
	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

type Server struct {
	db     *gorm.DB
	engine *gin.Engine
	cat    *catalog.Catalog
	hub    *hub
	log    zerolog.Logger
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// New opens the backing sqlite database and wires the routes.
func New(dbPath string, cat *catalog.Catalog, log zerolog.Logger) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.UserRecord{},
		&models.SubmissionRecord{},
		&models.PostRecord{},
		&models.PostLikeRecord{},
		&models.UserBadge{},
	); err != nil {
		return nil, err
	}

	s := &Server{
		db:  db,
		cat: cat,
		hub: newHub(log),
		log: log,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	{
		api.GET("/users/:id/stats", s.handleGetStats)
		api.POST("/submissions", s.handleSubmit)
		api.POST("/points", s.handleAddPoints)
		api.POST("/posts", s.handleCreatePost)
		api.POST("/posts/:id/like", s.handleToggleLike)
	}
	engine.GET("/ws", s.handleWS)

	s.engine = engine
	return s, nil
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("devserver listening")
	return s.engine.Run(addr)
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.hub.add(conn)
	// Reads are discarded; the feed is one-way. The read loop only notices
	// disconnects.
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
