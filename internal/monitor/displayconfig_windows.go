//go:build windows

package monitor

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/genricoloni/spanwall/internal/geometry"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// NewEnumerator resolves monitor names through the display configuration
// API and falls back to the screen capture library
func NewEnumerator(logger *zap.Logger) *Enumerator {
	return newEnumerator(logger, displayConfigBackend{logger: logger}, screenshotBackend{})
}

const (
	qdcOnlyActivePaths = 0x00000002

	displayConfigGetSourceName = 1
	displayConfigGetTargetName = 2

	errInsufficientBuffer = 122
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumDisplayMonitors         = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW             = user32.NewProc("GetMonitorInfoW")
	procGetDisplayConfigBufferSizes = user32.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig          = user32.NewProc("QueryDisplayConfig")
	procDisplayConfigGetDeviceInfo  = user32.NewProc("DisplayConfigGetDeviceInfo")

	monitorEnumProc = windows.NewCallback(func(hmonitor, hdc, rect, data uintptr) uintptr {
		handles := (*[]uintptr)(unsafe.Pointer(data))
		*handles = append(*handles, hmonitor)
		return 1
	})
)

type luid struct {
	LowPart  uint32
	HighPart int32
}

type pathSourceInfo struct {
	AdapterID   luid
	ID          uint32
	ModeInfoIdx uint32
	StatusFlags uint32
}

type pathTargetInfo struct {
	AdapterID        luid
	ID               uint32
	ModeInfoIdx      uint32
	OutputTechnology uint32
	Rotation         uint32
	Scaling          uint32
	RefreshRate      struct{ Numerator, Denominator uint32 }
	ScanLineOrdering uint32
	TargetAvailable  int32
	StatusFlags      uint32
}

type pathInfo struct {
	Source pathSourceInfo
	Target pathTargetInfo
	Flags  uint32
}

type modeInfo struct {
	InfoType  uint32
	ID        uint32
	AdapterID luid
	Info      [6]uint64
}

type deviceInfoHeader struct {
	Type      uint32
	Size      uint32
	AdapterID luid
	ID        uint32
}

type sourceDeviceName struct {
	Header            deviceInfoHeader
	ViewGdiDeviceName [32]uint16
}

type targetDeviceName struct {
	Header                    deviceInfoHeader
	Flags                     uint32
	OutputTechnology          uint32
	EdidManufactureID         uint16
	EdidProductCodeID         uint16
	ConnectorInstance         uint32
	MonitorFriendlyDeviceName [64]uint16
	MonitorDevicePath         [128]uint16
}

type monitorInfoEx struct {
	Size    uint32
	Monitor windows.Rect
	Work    windows.Rect
	Flags   uint32
	Device  [32]uint16
}

// displayConfigBackend lists monitors in GDI order and labels them with the
// friendly names the display configuration API reports, e.g. "DELL U2720Q"
type displayConfigBackend struct {
	logger *zap.Logger
}

func (displayConfigBackend) Name() string { return "displayconfig" }

func (b displayConfigBackend) Displays() ([]geometry.Display, error) {
	monitors, err := gdiMonitors()
	if err != nil {
		return nil, err
	}

	friendly, err := friendlyNames()
	if err != nil {
		b.logger.Debug("Monitor names unavailable", zap.Error(err))
	}
	return displaysFromGDI(monitors, friendly), nil
}

func gdiMonitors() ([]gdiMonitor, error) {
	var handles []uintptr
	ret, _, callErr := procEnumDisplayMonitors.Call(0, 0, monitorEnumProc, uintptr(unsafe.Pointer(&handles)))
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", callErr)
	}

	monitors := make([]gdiMonitor, 0, len(handles))
	for _, h := range handles {
		info := monitorInfoEx{}
		info.Size = uint32(unsafe.Sizeof(info))
		ret, _, callErr := procGetMonitorInfoW.Call(h, uintptr(unsafe.Pointer(&info)))
		if ret == 0 {
			return nil, fmt.Errorf("GetMonitorInfoW failed: %w", callErr)
		}
		r := info.Monitor
		monitors = append(monitors, gdiMonitor{
			Device: windows.UTF16ToString(info.Device[:]),
			Bounds: image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)),
		})
	}
	return monitors, nil
}

// friendlyNames maps GDI device names to monitor names for every active path.
// A source cloned to several targets keeps the first target's name.
func friendlyNames() (map[string]string, error) {
	paths, err := activePaths()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(paths))
	for _, p := range paths {
		src := sourceDeviceName{}
		src.Header = deviceInfoHeader{
			Type:      displayConfigGetSourceName,
			Size:      uint32(unsafe.Sizeof(src)),
			AdapterID: p.Source.AdapterID,
			ID:        p.Source.ID,
		}
		if ret, _, _ := procDisplayConfigGetDeviceInfo.Call(uintptr(unsafe.Pointer(&src))); ret != 0 {
			continue
		}

		tgt := targetDeviceName{}
		tgt.Header = deviceInfoHeader{
			Type:      displayConfigGetTargetName,
			Size:      uint32(unsafe.Sizeof(tgt)),
			AdapterID: p.Target.AdapterID,
			ID:        p.Target.ID,
		}
		if ret, _, _ := procDisplayConfigGetDeviceInfo.Call(uintptr(unsafe.Pointer(&tgt))); ret != 0 {
			continue
		}

		device := windows.UTF16ToString(src.ViewGdiDeviceName[:])
		if _, seen := names[device]; !seen {
			names[device] = windows.UTF16ToString(tgt.MonitorFriendlyDeviceName[:])
		}
	}
	return names, nil
}

// activePaths queries the active display paths, retrying while the topology
// changes between sizing the buffers and filling them
func activePaths() ([]pathInfo, error) {
	for {
		var numPaths, numModes uint32
		ret, _, _ := procGetDisplayConfigBufferSizes.Call(
			qdcOnlyActivePaths,
			uintptr(unsafe.Pointer(&numPaths)),
			uintptr(unsafe.Pointer(&numModes)))
		if ret != 0 {
			return nil, fmt.Errorf("GetDisplayConfigBufferSizes failed: %w", windows.Errno(ret))
		}
		if numPaths == 0 {
			return nil, nil
		}

		paths := make([]pathInfo, numPaths)
		modes := make([]modeInfo, max(numModes, 1))
		ret, _, _ = procQueryDisplayConfig.Call(
			qdcOnlyActivePaths,
			uintptr(unsafe.Pointer(&numPaths)),
			uintptr(unsafe.Pointer(&paths[0])),
			uintptr(unsafe.Pointer(&numModes)),
			uintptr(unsafe.Pointer(&modes[0])),
			0)
		if ret == errInsufficientBuffer {
			continue
		}
		if ret != 0 {
			return nil, fmt.Errorf("QueryDisplayConfig failed: %w", windows.Errno(ret))
		}
		return paths[:numPaths], nil
	}
}
