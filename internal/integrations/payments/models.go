package payments

// ProviderStripe имя провайдера в таблице уведомлений
const ProviderStripe = "stripe"

// Типы событий Stripe, которые увеличивают счётчик сборов
const (
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventCheckoutSessionCompleted = "checkout.session.completed"
)

// MetadataCounterKey ключ метаданных платежа с именем счётчика
const MetadataCounterKey = "counter"
