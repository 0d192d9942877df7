package service

import (
	"fmt"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// Consent document templates attached for teenagers. The helpdesk client
// resolves them against its attachments directory.
const (
	AttachmentDataProcessingConsent   = "Согласие на обработку персональных данных.docx"
	AttachmentDataDistributionConsent = "Согласие на распространение персональных данных.docx"
)

// Notification is the reply text and attachments for a category.
type Notification struct {
	Text        string
	Attachments []string
}

// SelectNotification returns the reply bundle for a category.
func SelectNotification(category domain.NotificationCategory) (Notification, error) {
	switch category {
	case domain.CategoryIncorrectBirthYear:
		return Notification{Text: incorrectBirthYearText}, nil
	case domain.CategoryAdult:
		return Notification{Text: adultText}, nil
	case domain.CategoryTeenager:
		return Notification{
			Text:        teenagerText,
			Attachments: []string{AttachmentDataProcessingConsent, AttachmentDataDistributionConsent},
		}, nil
	default:
		return Notification{}, fmt.Errorf("unknown notification category %q", category)
	}
}

const teenagerText = `<p>Здравствуйте!</p>
<p>Ваш профиль был деактивирован по причине того, что вы не загрузили сканы согласий родителей на обработку ваших персональных данных в свой профиль.<br/>
Временно активировали ваш профиль и продлили срок для загрузки согласий на 30 дней.<br/>
Пожалуйста, загрузите сканы согласий в разделе — <a href="https://leader-id.ru/settings?tab=privacy">https://leader-id.ru/settings?tab=privacy</a>, иначе ваш профиль будет вновь деактивирован.</p>
<p>Подробности можно прочитать в статье:<br/>
<a href="http://leader-id.usedocs.com/article/42745">Где заполнить согласие несовершеннолетнего на обработку персональных данных?</a></p>
<p>Если у вас остались вопросы, мы с радостью на них ответим.<br/>
Служба поддержки Leader-ID.<br/>
<a href="mailto:support@leader-id.ru">support@leader-id.ru</a></p>
<hr/>
<p>Основные вопросы и ответы в разделе «<a href="http://leader-id.usedocs.com/">Частые вопросы</a>»</p>
<hr/>
<p>Вы можете написать в наш чат-бот <a href="https://t.me/leaderid_bot" target="_blank">Telegram</a></p>`

const incorrectBirthYearText = `<p>Здравствуйте!</p>
<p>Ваш профиль был деактивирован, так как в настройках указан некорректный год рождения.<br/>
Мы активировали профиль, пожалуйста, измените дату рождения, перейдя по ссылке: <a href="https://leader-id.ru/settings?tab=main">https://leader-id.ru/settings?tab=main</a>.</p>
<br/>
<p>Просим вас пройти небольшой <a href="https://pnp.leader-id.ru/polls/p/67645e46-f179-45f1-8caf-50ec0bcd99c8/" target="_blank">опрос удовлетворенности поддержкой</a>. Это позволит нам улучшить ее качество.</p>
<br/>
<p>Если у вас остались вопросы, мы с радостью на них ответим.<br/>
Служба поддержки Leader-ID.<br/>
<a href="mailto:support@leader-id.ru">support@leader-id.ru</a></p>
<hr/>
<p>Основные вопросы и ответы в разделе «<a href="http://leader-id.usedocs.com/">Частые вопросы</a>»</p>
<hr/>
<p>Вы можете написать в наш чат-бот <a href="https://t.me/leaderid_bot" target="_blank">Telegram</a></p>`

const adultText = `<p>Здравствуйте!</p>
<p>Восстановили ваш профиль. Пожалуйста, повторите вход в аккаунт.</p>
<br/>
<p>Просим вас пройти небольшой <a href="https://pnp.leader-id.ru/polls/p/67645e46-f179-45f1-8caf-50ec0bcd99c8/" target="_blank">опрос удовлетворенности поддержкой</a>. Это позволит нам улучшить ее качество.</p>
<br/>
<p>Если у вас остались вопросы, мы с радостью на них ответим.<br/>
Служба поддержки Leader-ID.<br/>
<a href="mailto:support@leader-id.ru">support@leader-id.ru</a></p>
<hr/>
<p>Основные вопросы и ответы в разделе «<a href="http://leader-id.usedocs.com/">Частые вопросы</a>»</p>
<hr/>
<p>Вы можете написать в наш чат-бот <a href="https://t.me/leaderid_bot" target="_blank">Telegram</a></p>`
