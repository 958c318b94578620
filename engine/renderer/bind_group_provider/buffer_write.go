package bind_group_provider

// BufferWrite describes a single queue write targeting the buffer at Binding on a
// BindGroupProvider, starting at a byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
