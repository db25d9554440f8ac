package interpreter

// Frame records an active call. The saved caller state itself lives in
// memory, as it does in translated code.
type Frame struct {
	FuncName   string // called function
	ReturnToIP int    // command index to continue at after return
}
