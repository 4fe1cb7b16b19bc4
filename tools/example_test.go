package tools_test

import (
	"context"
	"fmt"

	"nexushr/tools"
)

func ExampleChain_Execute() {
	registry := tools.NewChain(tools.NewBuiltins())

	res := registry.Execute(context.Background(), "find_policy_document", map[string]any{
		"policy_name": "Remote Work",
	})
	fmt.Println(res["status"], res["document_url"])

	res = registry.Execute(context.Background(), "find_policy_document", map[string]any{})
	_, failed := res.Failure()
	fmt.Println(failed)

	// Output:
	// found /docs/remote-work-policy
	// true
}
