package hp48

// Commands maps the CLI-facing names to their constructors. The set
// is closed; the counter unit understands nothing else.
var Commands = map[string]func() Command{
	"request-count": RequestCount,
	"clear-memory":  ClearMemory,
}
