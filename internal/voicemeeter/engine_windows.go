//go:build windows

package voicemeeter

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const defaultDLL = `C:\Program Files (x86)\VB\Voicemeeter\VoicemeeterRemote64.dll`

// Engine drives VoiceMeeter through its remote control DLL. Safe for
// concurrent use; the DLL serializes parameter writes internally but Login
// and Logout are guarded here.
//
// Parameter writes go through the script entry point
// (VBVMR_SetParameters) rather than the float one: the float variant passes
// its value in an XMM register, which the syscall interface cannot express.
type Engine struct {
	dll           *windows.LazyDLL
	login         *windows.LazyProc
	logout        *windows.LazyProc
	setParameters *windows.LazyProc

	mu       sync.Mutex
	loggedIn bool
}

// NewEngine creates an engine bound to the remote DLL. dllPath may be empty
// to use the standard install location. The DLL is not touched until Login.
func NewEngine(dllPath string) *Engine {
	if dllPath == "" {
		dllPath = defaultDLL
	}
	dll := windows.NewLazyDLL(dllPath)
	return &Engine{
		dll:           dll,
		login:         dll.NewProc("VBVMR_Login"),
		logout:        dll.NewProc("VBVMR_Logout"),
		setParameters: dll.NewProc("VBVMR_SetParameters"),
	}
}

// Login connects to the running VoiceMeeter instance. Return code 0 means
// connected; 1 means the DLL loaded but VoiceMeeter itself is not running,
// which is still unusable for routing.
func (e *Engine) Login() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loggedIn {
		return nil
	}

	if err := e.dll.Load(); err != nil {
		return fmt.Errorf("%w: loading DLL: %v", ErrUnavailable, err)
	}

	rc, _, _ := e.login.Call()
	if rc != 0 {
		return fmt.Errorf("%w: login returned %d", ErrUnavailable, int32(rc))
	}
	e.loggedIn = true
	return nil
}

// Close logs out of the remote interface.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loggedIn {
		return nil
	}
	e.loggedIn = false
	if rc, _, _ := e.logout.Call(); rc != 0 {
		return fmt.Errorf("%w: logout returned %d", ErrCallFailed, int32(rc))
	}
	return nil
}

// SetBusMute mutes or unmutes one output bus.
func (e *Engine) SetBusMute(bus int, mute bool) error {
	value := 0
	if mute {
		value = 1
	}
	return e.run(fmt.Sprintf("Bus[%d].mute=%d", bus, value))
}

// Restart commits pending routing changes by restarting the audio engine.
func (e *Engine) Restart() error {
	return e.run("Command.Restart=1")
}

func (e *Engine) run(script string) error {
	e.mu.Lock()
	loggedIn := e.loggedIn
	e.mu.Unlock()
	if !loggedIn {
		return fmt.Errorf("%w: not logged in", ErrUnavailable)
	}

	buf := append([]byte(script), 0)
	rc, _, _ := e.setParameters.Call(uintptr(unsafe.Pointer(&buf[0])))
	if int32(rc) != 0 {
		return fmt.Errorf("%w: %q returned %d", ErrCallFailed, script, int32(rc))
	}
	return nil
}
