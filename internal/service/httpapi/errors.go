package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	grpcsvc "github.com/vladislavdragonenkov/marketplace/internal/service/grpc"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var httpStatuses = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.FailedPrecondition: http.StatusConflict,
	codes.OutOfRange:         http.StatusUnprocessableEntity,
	codes.Unimplemented:      http.StatusNotImplemented,
	codes.Unavailable:        http.StatusServiceUnavailable,
}

// HTTPStatus возвращает HTTP-статус для gRPC-кода.
func HTTPStatus(code codes.Code) int {
	if s, ok := httpStatuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// abortWithError отвечает ошибкой. Ошибки сервера уже несут gRPC-статус;
// доменные ошибки из middleware переводятся по виду.
func abortWithError(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	kind := grpcsvc.KindFromStatus(st)
	if !ok {
		kind = domain.Kind(err)
		st = status.New(grpcsvc.CodeForKind(kind), err.Error())
	}
	if kind == "" {
		kind = st.Code().String()
	}
	c.AbortWithStatusJSON(HTTPStatus(st.Code()), errorBody{Error: errorPayload{
		Kind:    kind,
		Message: st.Message(),
	}})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: errorPayload{
		Kind:    codes.InvalidArgument.String(),
		Message: msg,
	}})
}
