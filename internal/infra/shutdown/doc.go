// Package shutdown runs cleanup hooks when the server is asked to stop.
//
//	h := shutdown.NewHandler(10*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("http", srv.Shutdown)
//	return h.Wait(ctx)
package shutdown
