package http

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/foliosite/folio/internal/cloudinary"
	"github.com/foliosite/folio/internal/lastfm"
	"github.com/foliosite/folio/internal/pagination"
	"github.com/foliosite/folio/internal/profanity"
	"github.com/foliosite/folio/internal/ws"
)

// Env carries every dependency the handlers share.
type Env struct {
	DB        *gorm.DB
	Hub       *ws.Hub
	Profanity *profanity.Client
	Images    *cloudinary.Client
	Music     *lastfm.Client
}

// Per-resource list defaults. The logs page shows six entries, everything
// else ten.
const (
	defaultListLimit = 10
	defaultLogLimit  = 6
)

// listQuery is the shared list contract: limit 1..100, opaque cursor,
// newest/oldest sort. Limit is a pointer so an explicit limit=0 is rejected
// instead of falling back to the default.
type listQuery struct {
	Limit  *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Cursor string `form:"cursor"`
	Sort   string `form:"sort" binding:"omitempty,oneof=newest oldest"`
}

func (q listQuery) params(defaultLimit int, tiered bool) pagination.Params {
	limit := defaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: q.Cursor,
		Sort:   q.Sort,
		Tiered: tiered,
	}
}

// WsMessage is the envelope the frontend expects on the live feed.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (e *Env) broadcastMessage(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	e.Hub.Broadcast <- jsonMsg
}
