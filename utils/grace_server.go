package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	serverReadTimeout  = 60 * time.Second
	serverWriteTimeout = 60 * time.Second
	shutdownTimeout    = 30 * time.Second

	// The restarted child inherits the listening socket as fd 3 and
	// finds this variable in its environment.
	inheritEnvKey   = "PULSE_INHERIT_FD"
	inheritEnvPair  = inheritEnvKey + "=1"
	inheritedSockFd = 3
)

// GraceServer serves HTTP on addr until SIGTERM (drain and exit) or
// SIGUSR2 (re-exec the binary on the same socket, then drain).
func GraceServer(addr string, handler http.Handler) error {
	srv := &graceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
		inherited: os.Getenv(inheritEnvKey) != "",
		signals:   make(chan os.Signal, 1),
		drained:   make(chan struct{}),
	}
	return srv.listenAndServe()
}

type graceServer struct {
	*http.Server

	listener  net.Listener
	inherited bool
	signals   chan os.Signal
	drained   chan struct{}
}

func (srv *graceServer) listenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	go srv.handleSignals()
	err = srv.Serve(srv.listener)
	// Serve returns as soon as Shutdown begins; wait for the drain.
	<-srv.drained
	return err
}

func (srv *graceServer) listen() (net.Listener, error) {
	if srv.inherited {
		ln, err := net.FileListener(os.NewFile(inheritedSockFd, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return ln, nil
}

func (srv *graceServer) handleSignals() {
	signal.Notify(srv.signals, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range srv.signals {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("SIGTERM received, draining HTTP server")
			srv.drain()
		case syscall.SIGUSR2:
			Sugar.Info("SIGUSR2 received, handing socket to a new process")
			pid, err := srv.forkChild()
			if err != nil {
				Sugar.Errorf("restart failed, keeping current process: %v", err)
				continue
			}
			Sugar.Infof("new process started, pid=%d, draining old one", pid)
			srv.drain()
		}
	}
}

func (srv *graceServer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown: %v", err)
	} else {
		Sugar.Info("HTTP server drained")
	}
	close(srv.drained)
}

// forkChild re-execs the current binary with the listening socket
// passed as fd 3 and the inherit marker set in its environment.
func (srv *graceServer) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is %T, not *net.TCPListener", srv.listener)
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("dup listener fd: %w", err)
	}

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != inheritEnvPair {
			env = append(env, e)
		}
	}
	env = append(env, inheritEnvPair)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
