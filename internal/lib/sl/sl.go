package sl

import "log/slog"

// Err returns an attribute holding the error text; nil errors are logged as empty.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Module names the component that emits the record.
func Module(mod string) slog.Attr {
	return slog.String("module", mod)
}

// Secret logs only a short prefix of a sensitive value.
func Secret(key, value string) slog.Attr {
	if len(value) <= 4 {
		return slog.String(key, "****")
	}
	return slog.String(key, value[:4]+"****")
}
