package scoreservice

// SubmitErrorMessage is shown when the service rejects a submission without
// saying why, or cannot be reached at all.
const SubmitErrorMessage = "Error submitting score"
