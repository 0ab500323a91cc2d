package classify

// TierInfo describes one tier of the cascade.
type TierInfo struct {
	Name     string   `json:"name"`
	Terminal bool     `json:"terminal"`
	Rules    []string `json:"rules"`
}

// Catalog is a read-only view of the rule tiers and their marker tables.
type Catalog struct {
	Tiers              []TierInfo    `json:"tiers"`
	Node               []Pattern     `json:"node"`
	Python             []Pattern     `json:"python"`
	Java               []JavaPattern `json:"java"`
	GoModules          []Pattern     `json:"go_modules"`
	MainGo             []Pattern     `json:"main_go"`
	Composer           []Pattern     `json:"composer"`
	DockerServers      []Pattern     `json:"docker_servers"`
	DockerBaseOS       []Pattern     `json:"docker_base_os"`
	BlazorWasm         []string      `json:"blazor_wasm"`
	BlazorServer       []string      `json:"blazor_server"`
	Lambda             []string      `json:"lambda"`
	AzureFunctions     []string      `json:"azure_functions"`
	SolutionIndicators []string      `json:"solution_indicators"`
}

// Rules returns the catalog in evaluation order.
func Rules() Catalog {
	c := Catalog{
		Node:               NodeFrameworks,
		Python:             PythonFrameworks,
		Java:               JavaFrameworks,
		GoModules:          GoModules,
		MainGo:             MainGoCalls,
		Composer:           ComposerPackages,
		DockerServers:      DockerServers,
		DockerBaseOS:       DockerBaseOS,
		BlazorWasm:         BlazorWasmPackages,
		BlazorServer:       BlazorServerCalls,
		Lambda:             LambdaMarkers,
		AzureFunctions:     FunctionsMarkers,
		SolutionIndicators: SolutionIndicators,
	}
	for _, t := range tiers {
		info := TierInfo{Name: t.name, Terminal: t.terminal}
		for _, r := range t.rules {
			info.Rules = append(info.Rules, r.Name)
		}
		c.Tiers = append(c.Tiers, info)
	}
	return c
}
