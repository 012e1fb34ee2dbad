package httpapi

import (
	"net/http"

	"github.com/umatomo/predict-api/internal/platform/logging"
)

type RouterConfig struct {
	SwaggerEnabled      bool
	CORSAllowedOrigins  []string
	InternalJobToken    string
	CaptureRequestBody  bool
	RequestBodyMaxBytes int
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerPublicDomainRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, verifier)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	var inner http.Handler = recoverPanic(logger, mux)
	if cfg.CaptureRequestBody {
		inner = CaptureRequestBody(cfg.RequestBodyMaxBytes, inner)
	}

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, inner)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
