package intent

// Kind identifies the handler category a command routes to.
type Kind string

const (
	KindExit           Kind = "exit"
	KindPlayMusic      Kind = "play_music"
	KindStopMusic      Kind = "stop_music"
	KindVolumeUp       Kind = "volume_up"
	KindVolumeDown     Kind = "volume_down"
	KindCancelDelivery Kind = "cancel_delivery"
	KindDeliveryOrder  Kind = "delivery_order"
	KindCalendarQuery  Kind = "calendar_query"
	KindGeneralChat    Kind = "general_chat"
)

// Intent is a routed command. Arg carries the track name for KindPlayMusic
// and the raw command text for the delivery, calendar and chat kinds.
type Intent struct {
	Kind Kind
	Arg  string
}
