package eventbus

type CatalogEventType string

const (
	CatalogEventEntryChanged CatalogEventType = "EntryChanged"
	CatalogEventEntryRemoved CatalogEventType = "EntryRemoved"
)

// CatalogEvent 内置目录中条目文件的变化
type CatalogEvent struct {
	Type CatalogEventType
	Path string
}

func (e CatalogEvent) EventType() CatalogEventType {
	return e.Type
}

type CatalogEventBus = Bus[CatalogEventType, CatalogEvent]

func NewCatalogEventBus() *CatalogEventBus {
	return NewBus[CatalogEventType, CatalogEvent]()
}
