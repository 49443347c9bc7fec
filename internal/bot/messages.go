package bot

const (
	feedbackURL = "https://t.me/vingrigstudio"

	// Caption under the /start image. Sent with HTML parse mode.
	welcomeCaption = "Time to improve the game together, leave your feedback about the game at " +
		feedbackURL + "\n\n" +
		"Now press play Sticker Shot!!!"

	// Shown whenever /start cannot deliver the image.
	fallbackText = "Извините, произошла ошибка. Пожалуйста, попробуйте позже."

	// Sent with Markdown parse mode.
	helpText = "🎮 *Sticker Shot Bot*\n\n" +
		"Доступные команды:\n" +
		"/start - Начать работу с ботом\n" +
		"/help - Показать это сообщение\n\n" +
		"Оставляйте отзывы о игре: " + feedbackURL
)
