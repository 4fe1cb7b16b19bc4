package tools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"nexushr/model"
)

type builtin struct {
	def    model.ToolDefinition
	schema *jsonschema.Schema
	run    func(ctx context.Context, args map[string]any) (model.ToolResult, error)
}

func newBuiltin[T any](name, description string, handler func(context.Context, T) (model.ToolResult, error)) builtin {
	params, err := parametersFor[T]()
	if err != nil {
		panic(fmt.Sprintf("tools: %s: %v", name, err))
	}
	sch, err := compileParameters(name, params)
	if err != nil {
		panic(fmt.Sprintf("tools: %s: %v", name, err))
	}

	b := builtin{
		def:    model.ToolDefinition{Name: name, Description: description, Parameters: params},
		schema: sch,
	}
	b.run = func(ctx context.Context, args map[string]any) (model.ToolResult, error) {
		if err := validateArgs(name, b.schema, args); err != nil {
			return nil, err
		}
		typed, err := decodeArgs[T](args)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
		}
		return handler(ctx, typed)
	}
	return b
}

// Builtins is the static HR tool set. Declaration order is the order the
// definitions are listed in.
type Builtins struct {
	tools []builtin
	index map[string]int
}

func NewBuiltins() *Builtins {
	b := &Builtins{
		tools: []builtin{
			newBuiltin("start_onboarding_process",
				"Initiates the onboarding process for a new employee.",
				startOnboarding),
			newBuiltin("request_pto_balance",
				"Retrieves the paid time off (PTO) balance for the current employee.",
				requestPTOBalance),
			newBuiltin("find_policy_document",
				"Finds and returns a link to a specific company policy document.",
				findPolicyDocument),
			newBuiltin("get_weather",
				"Get current weather information for a location",
				getWeather),
		},
	}
	b.index = make(map[string]int, len(b.tools))
	for i, t := range b.tools {
		b.index[t.def.Name] = i
	}
	return b
}

func (b *Builtins) Definitions(ctx context.Context) ([]model.ToolDefinition, error) {
	defs := make([]model.ToolDefinition, len(b.tools))
	for i, t := range b.tools {
		defs[i] = t.def
	}
	return defs, nil
}

func (b *Builtins) Execute(ctx context.Context, name string, args map[string]any) (model.ToolResult, bool, error) {
	i, ok := b.index[name]
	if !ok {
		return nil, false, nil
	}
	res, err := b.tools[i].run(ctx, args)
	return res, true, err
}

type onboardingArgs struct {
	EmployeeName string `json:"employee_name" jsonschema_description:"The full name of the new employee."`
	StartDate    string `json:"start_date" jsonschema_description:"The employee's start date in YYYY-MM-DD format."`
}

var onboardingTasks = []string{
	"Complete new hire paperwork in HR portal",
	"Set up company email and communication tools",
	"Review the employee handbook",
	"Schedule a 1-on-1 with your manager",
	"Complete mandatory security training",
}

func startOnboarding(_ context.Context, args onboardingArgs) (model.ToolResult, error) {
	checklist := make([]model.ChecklistTask, len(onboardingTasks))
	for i, text := range onboardingTasks {
		checklist[i] = model.ChecklistTask{ID: fmt.Sprintf("task_%d", i+1), Text: text}
	}

	return model.ToolResult{
		"status":             "success",
		"message":            fmt.Sprintf("Onboarding process initiated for %s, starting on %s.", args.EmployeeName, args.StartDate),
		"onboarding_id":      fmt.Sprintf("ONB-%d", 1000+rand.IntN(9000)),
		model.UIComponentKey: model.OnboardingChecklistComponent,
		"employee_name":      args.EmployeeName,
		"start_date":         args.StartDate,
		"checklist":          checklist,
	}, nil
}

type ptoArgs struct{}

const (
	syntheticEmployeeID = "EMP-12345"
	ptoAccrualRate      = 4.62
)

func requestPTOBalance(_ context.Context, _ ptoArgs) (model.ToolResult, error) {
	hours := 20 + rand.Float64()*80
	return model.ToolResult{
		"employee_id":                 syntheticEmployeeID,
		"pto_balance_hours":           fmt.Sprintf("%.1f", hours),
		"accrual_rate_per_pay_period": ptoAccrualRate,
	}, nil
}

type policyArgs struct {
	PolicyName string `json:"policy_name" jsonschema_description:"The name or topic of the policy document to find (e.g., \"remote work\", \"expense\")."`
}

type policyDocument struct {
	key   string
	title string
	url   string
}

// policyTable is searched in order; the first key containing the query wins.
var policyTable = []policyDocument{
	{key: "remote work", title: "Remote Work Policy", url: "/docs/remote-work-policy"},
	{key: "expense", title: "Travel & Expense Policy", url: "/docs/expense-policy"},
	{key: "code of conduct", title: "Code of Conduct", url: "/docs/code-of-conduct"},
}

func findPolicyDocument(_ context.Context, args policyArgs) (model.ToolResult, error) {
	query := strings.ToLower(args.PolicyName)
	for _, doc := range policyTable {
		if strings.Contains(doc.key, query) {
			return model.ToolResult{
				"status":         "found",
				"document_title": doc.title,
				"document_url":   doc.url,
			}, nil
		}
	}
	return model.ToolResult{
		"status":  "not_found",
		"message": fmt.Sprintf("Sorry, I could not find a policy document related to \"%s\". Please try a different keyword.", args.PolicyName),
	}, nil
}

type weatherArgs struct {
	Location string `json:"location" jsonschema_description:"The city or location name"`
}

var weatherConditions = []string{"Sunny", "Cloudy", "Rainy", "Snowy"}

func getWeather(_ context.Context, args weatherArgs) (model.ToolResult, error) {
	return model.ToolResult{
		"location":    args.Location,
		"temperature": rand.IntN(40) - 10,
		"condition":   weatherConditions[rand.IntN(len(weatherConditions))],
		"humidity":    rand.IntN(100),
	}, nil
}
