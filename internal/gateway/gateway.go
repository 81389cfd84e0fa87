// Package gateway lets browsers call the admin service with plain JSON over
// HTTP/1.1. Bodies are parsed into the service's wire Struct and sent through
// a gRPC client connection, so the interceptors see gateway traffic exactly
// like native calls.
package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"coach-booking-api/internal/rpc"
)

const maxBody = 1 << 20

// Bridge translates JSON-over-HTTP into gRPC calls.
type Bridge struct {
	conn grpc.ClientConnInterface
	own  *grpc.ClientConn
}

// New dials the gRPC server at addr (e.g. "localhost:50051").
func New(addr string) (*Bridge, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway dial: %w", err)
	}
	return &Bridge{conn: conn, own: conn}, nil
}

// NewWithConn uses an existing connection; Close leaves it open.
func NewWithConn(conn grpc.ClientConnInterface) *Bridge {
	return &Bridge{conn: conn}
}

func (b *Bridge) Close() error {
	if b.own == nil {
		return nil
	}
	return b.own.Close()
}

func (b *Bridge) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Options("/*", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/{service}/{method}", b.forward)
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Grpc-Status, Grpc-Message")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Add("Vary", "Origin")
		next.ServeHTTP(w, r)
	})
}

func (b *Bridge) forward(w http.ResponseWriter, r *http.Request) {
	service, method := chi.URLParam(r, "service"), chi.URLParam(r, "method")
	if service != rpc.ServiceName {
		writeError(w, codes.Unimplemented, "unknown service")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, codes.InvalidArgument, "read body failed")
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	in := new(structpb.Struct)
	if err := protojson.Unmarshal(body, in); err != nil {
		writeError(w, codes.InvalidArgument, "body is not a json object")
		return
	}

	// forward metadata
	md := metadata.MD{}
	if v := r.Header.Get("Authorization"); v != "" {
		md.Set("authorization", v)
	}
	if ip := remoteIP(r); ip != "" {
		md.Set("x-forwarded-for", ip)
	}
	ctx := metadata.NewOutgoingContext(r.Context(), md)

	full := "/" + service + "/" + method
	out := new(structpb.Struct)
	if err := b.conn.Invoke(ctx, full, in, out); err != nil {
		st, _ := status.FromError(err)
		slog.WarnContext(r.Context(), "gateway call failed",
			slog.String("method", full),
			slog.String("code", st.Code().String()),
			slog.String("msg", st.Message()))
		writeError(w, st.Code(), st.Message())
		return
	}

	resp, err := protojson.Marshal(out)
	if err != nil {
		writeError(w, codes.Internal, "encode response failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Grpc-Status", "0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code codes.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Grpc-Status", fmt.Sprint(uint32(code)))
	w.Header().Set("Grpc-Message", msg)
	w.WriteHeader(httpStatus(code))
	_ = json.NewEncoder(w).Encode(errorBody{Code: code.String(), Message: msg})
}

func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
