package services

// KV key layout. Subject is the caller identity resolved by the middleware:
// the signed-in phone number, "device:<id>", or "guest". Profile keys are
// always phone-based since profiles only exist for signed-in users.
func cartKey(subject string) string      { return "cart:" + subject }
func profileKey(phone string) string     { return "user_profile:" + phone }
func loginKey(phone string) string       { return "is_logged_in:" + phone }
func orderHistoryKey(subject string) string {
	return "order_history:" + subject
}
func feedbackKey(subject string) string      { return "feedback_notifications:" + subject }
func feedbackGivenKey(subject string) string { return "feedback_given:" + subject }
func otpKey(phone string) string             { return "otp:" + phone }

// feedbackSubjectsKey indexes which subjects have pending feedback entries
// so the periodic sweep knows whose documents to visit.
const feedbackSubjectsKey = "feedback_subjects"
