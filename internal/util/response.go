package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

// Message is the envelope used by the password reset and account pages.
func Message(message string) Envelope {
	return Envelope{"message": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
