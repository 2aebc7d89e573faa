// Package netlify adapts the HTTP engine to the AWS Lambda runtime that
// Netlify Functions use for Go.
package netlify

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

// ClientIPHeader carries the visitor address Netlify's edge observed. Only
// Netlify can set it on function invocations.
const ClientIPHeader = "X-Nf-Client-Connection-Ip"

// Handler proxies function invocations into a gin engine. Build it once per
// cold start; the engine and everything behind it are reused across
// invocations.
type Handler struct {
	adapter *ginadapter.GinLambda
}

// NewHandler makes engine resolve client IPs from ClientIPHeader.
func NewHandler(engine *gin.Engine) *Handler {
	engine.TrustedPlatform = ClientIPHeader
	return &Handler{adapter: ginadapter.New(engine)}
}

// Handle serves one invocation.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return h.adapter.ProxyWithContext(ctx, req)
}
