package server

import (
	"os"
	"time"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
)

// DefaultTimeout 聚合一次要串行调用十几次模型，kratos 默认的 1s 远远不够
const DefaultTimeout = 10 * time.Minute

// Registrar 向 HTTP 服务注册路由
type Registrar interface {
	RegisterHTTP(srv *http.Server)
}

// NewHTTPServer 创建带 recovery 中间件和 /metrics 的 HTTP 服务
func NewHTTPServer(addr, timeout string, r Registrar) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Timeout(parseTimeout(timeout)),
	}
	if addr != "" {
		opts = append(opts, http.Address(addr))
	}

	srv := http.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	r.RegisterHTTP(srv)
	return srv
}

// NewGRPCServer 只暴露 kratos 内置的 grpc health 服务，供编排系统做存活探测
func NewGRPCServer(addr string) *grpc.Server {
	return grpc.NewServer(
		grpc.Address(addr),
		grpc.Middleware(recovery.Recovery()),
	)
}

func parseTimeout(s string) time.Duration {
	if s == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// NewLogger kratos 自身使用的日志，业务日志走 logger.Log
func NewLogger(name, version string) log.Logger {
	id, _ := os.Hostname()
	return log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", name,
		"service.version", version,
	)
}

// NewApp 组装单个服务，addr.GRPC 为空时只启动 HTTP
func NewApp(name, version string, logger log.Logger, addr config.ServiceAddr, timeout string, r Registrar) *kratos.App {
	servers := []transport.Server{NewHTTPServer(addr.HTTP, timeout, r)}
	if addr.GRPC != "" {
		servers = append(servers, NewGRPCServer(addr.GRPC))
	}

	id, _ := os.Hostname()
	return kratos.New(
		kratos.ID(id),
		kratos.Name(name),
		kratos.Version(version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(servers...),
	)
}
