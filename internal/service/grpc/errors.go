package grpcsvc

import (
	log "github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// kindCodes сопоставляет виды доменных ошибок с кодами gRPC.
var kindCodes = map[string]codes.Code{
	"AlreadyRegistered": codes.AlreadyExists,
	"NotRegistered":     codes.NotFound,
	"InvalidRole":       codes.InvalidArgument,
	"NotSeller":         codes.PermissionDenied,
	"NotBuyer":          codes.PermissionDenied,
	"NotAuthorized":     codes.PermissionDenied,
	"Unauthenticated":   codes.Unauthenticated,
	"ProductNotFound":   codes.NotFound,
	"ListingNotFound":   codes.NotFound,
	"OrderNotFound":     codes.NotFound,
	"InvalidCategory":   codes.InvalidArgument,
	"InvalidPrice":      codes.InvalidArgument,
	"EmptyOrder":        codes.InvalidArgument,
	"InvalidQuantity":   codes.InvalidArgument,
	"DuplicateListing":  codes.InvalidArgument,
	"MultipleSellers":   codes.InvalidArgument,
	"SelfPurchase":      codes.InvalidArgument,
	"AmountMismatch":    codes.InvalidArgument,
	"InsufficientStock": codes.FailedPrecondition,
	"InsufficientFunds": codes.FailedPrecondition,
	"InvalidState":      codes.FailedPrecondition,
	"AlreadyRequested":  codes.AlreadyExists,
	"Overflow":          codes.OutOfRange,
}

// CodeForKind возвращает gRPC-код для вида ошибки; неизвестные виды считаются Internal.
func CodeForKind(kind string) codes.Code {
	if code, ok := kindCodes[kind]; ok {
		return code
	}
	return codes.Internal
}

// toStatus переводит доменную ошибку в gRPC-статус с ErrorInfo в деталях.
// Текст внутренних ошибок наружу не уходит.
func toStatus(err error, logger *log.Entry, method string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	kind := domain.Kind(err)
	code := CodeForKind(kind)
	msg := err.Error()
	if code == codes.Internal {
		logger.WithError(err).WithField("method", method).Error("request failed")
		msg = "internal error"
	}

	st := status.New(code, msg)
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: kind,
		Domain: marketplacev1.ErrorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// KindFromStatus извлекает вид ошибки из ErrorInfo статуса.
func KindFromStatus(st *status.Status) string {
	if st == nil {
		return ""
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == marketplacev1.ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}
