package clean

import "errors"

// ErrHelperStall is returned when a worker's writer fails to
// acknowledge a batch within its configured timeout (spec.md section
// 4.5). The caller may reassign the worker's range to a fresh worker.
var ErrHelperStall = errors.New("clean: writer did not acknowledge batch in time")

// ErrFatalMismatch is returned when a writer's ack reports fewer
// deletions than invalids in the corresponding batch. The whole run
// aborts and the store is considered untrusted until a fresh clean
// pass succeeds.
var ErrFatalMismatch = errors.New("clean: writer acked fewer deletions than invalids reported")
