package model

import "fmt"

// DescribeToolCall renders the one-line inline summary shown under an
// assistant message for each of its tool calls.
func DescribeToolCall(call ToolCall) string {
	if call.Pending() {
		return fmt.Sprintf("Executing %s...", call.Name)
	}
	if msg, failed := call.Result.Failure(); failed {
		return "Error: " + msg
	}

	switch call.Name {
	case "start_onboarding_process":
		if HasMarker(call.Result, OnboardingChecklistComponent) {
			return fmt.Sprintf("Onboarding for %s initiated.", call.Result.String("employee_name"))
		}
		return "Onboarding initiated."
	case "request_pto_balance":
		return fmt.Sprintf("PTO Balance: %v hours.", call.Result["pto_balance_hours"])
	case "find_policy_document":
		if call.Result.String("status") == "found" {
			return "Found: " + call.Result.String("document_title")
		}
		return "Policy not found."
	}
	return fmt.Sprintf("%s executed.", call.Name)
}
