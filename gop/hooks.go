package gop

// ErrorCorrectedHook is signaled whenever a Check call successfully
// corrects real corruption. It is nil (a no-op) by default; external
// tooling (metrics, logging, test harnesses) may assign it.
var ErrorCorrectedHook func()

// LockErrorHook is signaled whenever a counting lock's ANB code fails its
// arithmetic check, i.e. its counter has been hit by a bit error. Nil by
// default.
var LockErrorHook func()

func signalCorrected() {
	if ErrorCorrectedHook != nil {
		ErrorCorrectedHook()
	}
}

func signalLockError() {
	if LockErrorHook != nil {
		LockErrorHook()
	}
}
