package events

import "sync"

var (
	registryMu sync.RWMutex
	typeToName = make(map[EventType]string)
)

func init() {
	RegisterType("Tick", EventTick)
	RegisterType("PairStart", EventPairStart)
	RegisterType("PairStop", EventPairStop)
	RegisterType("TileStartOverlap", EventTileStartOverlap)
	RegisterType("TileStopOverlap", EventTileStopOverlap)
	RegisterType("TileEnter", EventTileEnter)
	RegisterType("TileExit", EventTileExit)
	RegisterType("TileEntersArea", EventTileEntersArea)
	RegisterType("TileExitsArea", EventTileExitsArea)
	RegisterType("ContextPush", EventContextPush)
	RegisterType("ContextPop", EventContextPop)
}

// RegisterType maps an EventType to its display name
func RegisterType(name string, et EventType) {
	registryMu.Lock()
	defer registryMu.Unlock()
	typeToName[et] = name
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return typeToName[et]
}

// String implements fmt.Stringer
func (et EventType) String() string {
	if name := GetEventName(et); name != "" {
		return name
	}
	return "Unknown"
}
