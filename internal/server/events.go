package server

// event is a unit of work enqueued by a reader or timer goroutine and run
// exclusively on the dispatcher goroutine.
type event func(s *Server)
