package telegram

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	// SendMessageToUser sends a MarkdownV2 message to the configured operator.
	SendMessageToUser(message string)
}
