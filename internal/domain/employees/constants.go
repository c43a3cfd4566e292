package employees

const (
	TypeLocal = "local"
	TypeUnion = "union"
)
