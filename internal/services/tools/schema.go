package tools

// applyDefaults fills absent arguments from the "default" entries in the
// schema's top-level properties. The input map is not modified.
func applyDefaults(schema map[string]any, args map[string]any) map[string]any {
	merged := make(map[string]any, len(args))
	for k, v := range args {
		merged[k] = v
	}

	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return merged
	}
	for name, raw := range properties {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if _, present := merged[name]; present {
			continue
		}
		if def, has := prop["default"]; has {
			merged[name] = def
		}
	}
	return merged
}
