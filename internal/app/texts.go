package app

import (
	"fmt"

	"review_relay/internal/domain"
)

const (
	welcomeText = "Приветствую Вас, %s. Я бот для приема отзывов на спектакли в канал \"Театральные заметки\". " +
		"Оставляя здесь отзыв, Вы даете согласие на публикацию его в канале, возможно, с минимальными изменениями " +
		"в части орфографии, грамматики и стилистики, не нарушающими смысла. \"По умолчанию\" отзывы в канале " +
		"публикуются с указанием, что они поступили через бот, но без указания авторства для сохранения конфиденциальности. " +
		"Если Вы хотите указать себя, как автора, пожалуйста, просто явно подпишите его так, как Вы хотите, " +
		"и Ваша подпись будет включена в публикацию AS IS. " + instructionsText + " " +
		"Не беспокойтесь, если что-то напишете не так и отправите. " +
		"Администратор канала все прочитает, увидит и, при необходимости, поправит."

	instructionsText = "Просто отправляйте текстовые сообщения и добавляйте картинки, как в обычной переписке. " +
		"Пока Вы не нажмете кнопку \"Завершить текущий отзыв\", все, что Вы отправите, будет объединено в один отзыв."

	noActiveReviewText = "У вас нет активного отзыва. Нажмите 'Новый отзыв', чтобы начать."
	thankYouText       = "Спасибо за ваш отзыв! 🙏"
	emptyReviewText    = "Отзыв пуст"
	sentText           = "Ваш отзыв был отправлен администратору. " +
		"Если хотите оставить еще один отзыв, нажмите кнопку ниже."

	moderatorHeader  = "📝 Новый отзыв\n\nОтзыв от: %s (%s) [ID: %d]"
	moderatorBody    = "💬 Текст отзыва:\n\n%s"
	moderatorPhoto   = "📷 Фото из отзыва от %s"
	anonymousMention = "пользователь"
	noHandle         = "без username"
)

var (
	startControls  = []domain.Control{{Label: "Новый отзыв", Action: domain.ActionStartReview}}
	finishControls = []domain.Control{{Label: "Завершить текущий отзыв", Action: domain.ActionFinishReview}}
)

func welcome(handle string) string {
	mention := anonymousMention
	if handle != "" {
		mention = "@" + handle
	}
	return fmt.Sprintf(welcomeText, mention)
}

func header(id domain.Identity) string {
	h := noHandle
	if id.Handle != "" {
		h = "@" + id.Handle
	}
	return fmt.Sprintf(moderatorHeader, id.DisplayName, h, id.UserID)
}
