// middleware/trace.go

package middleware

import (
	"fmt"
	"hash/fnv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// TraceHop records which logical access node handled a request.
type TraceHop struct {
	RequestID string `json:"request_id"`
	Node      string `json:"node"`
	Path      string `json:"path"`
	ClientIP  string `json:"client_ip"`
}

// Trace assigns each request to one of a fixed set of logical access nodes,
// the way a reader network pins a badge terminal to a controller. The node
// assignment is sticky per client IP so repeat swipes from one reader land
// on the same node. Hops are published on the event bus and echoed in the
// X-Access-Node header.
func Trace(eventBus *util.EventBus, nodes int) gin.HandlerFunc {
	if nodes < 1 {
		nodes = 1
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		h := fnv.New32a()
		h.Write([]byte(c.ClientIP()))
		node := fmt.Sprintf("node-%d", int(h.Sum32())%nodes)

		c.Header("X-Request-ID", requestID)
		c.Header("X-Access-Node", node)
		c.Set("accessNode", node)
		c.Set("requestID", requestID)

		eventBus.Publish(c, util.EventTraceHop, TraceHop{
			RequestID: requestID,
			Node:      node,
			Path:      c.Request.URL.Path,
			ClientIP:  c.ClientIP(),
		})

		c.Next()
	}
}
