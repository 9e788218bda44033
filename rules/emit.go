package rules

import "github.com/c360studio/semmap/vocabulary/mapping"

// Element and attribute names of the TransformRules wire format.
const (
	ElementRules          = "TransformRules"
	ElementRule           = "TransformRule"
	ElementInput          = "Input"
	ElementTransformInput = "TransformInput"
	ElementParam          = "Param"
	ElementMappingTarget  = "MappingTarget"
	ElementValueType      = "ValueType"

	AttrName           = "name"
	AttrTargetProperty = "targetProperty"
	AttrPath           = "path"
	AttrFunction       = "function"
	AttrValue          = "value"
	AttrURI            = "uri"
	AttrNodeType       = "nodeType"
)

// Transformer functions referenced by emitted rules.
const (
	FunctionConcat      = "concat"
	FunctionConstant    = "constant"
	FunctionConstantURI = "constantUri"
)

// Emit builds the TransformRule element for rule. Rules with an unknown
// kind are treated as complex rules.
func Emit(rule Rule, prefixes PrefixTable) *Element {
	switch rule.Kind {
	case KindDirect:
		return emitDirect(rule, prefixes)
	case KindURI:
		return emitURI(rule)
	case KindObject:
		return emitObject(rule, prefixes)
	case KindType:
		return emitType(rule)
	default:
		return emitComplex(rule, prefixes)
	}
}

func emitDirect(rule Rule, prefixes PrefixTable) *Element {
	return NewElement(ElementRule).
		SetAttr(AttrName, rule.Name).
		Append(
			NewElement(ElementInput).SetAttr(AttrPath, rule.Source),
			mappingTarget(prefixes.Expand(rule.Target), rule.NodeType),
		)
}

func emitURI(rule Rule) *Element {
	return NewElement(ElementRule).
		SetAttr(AttrName, rule.Name).
		SetAttr(AttrTargetProperty, "").
		Append(concatInput(Compile(rule.Pattern)))
}

// Object mappings always produce resources, whatever node type was picked.
func emitObject(rule Rule, prefixes PrefixTable) *Element {
	return NewElement(ElementRule).
		SetAttr(AttrName, rule.Name).
		SetAttr(AttrTargetProperty, rule.Target).
		Append(
			concatInput(Compile(rule.Pattern)),
			mappingTarget(prefixes.Expand(rule.Target), mapping.NodeTypeURI),
		)
}

func emitType(rule Rule) *Element {
	return NewElement(ElementRule).
		SetAttr(AttrName, rule.Name).
		SetAttr(AttrTargetProperty, mapping.RDFType).
		Append(constantInput(FunctionConstantURI, rule.Type))
}

// emitComplex copies the payload and overwrites only the name, target URI
// and target node type.
func emitComplex(rule Rule, prefixes PrefixTable) *Element {
	el := rule.Payload.Clone()
	if el == nil {
		el = NewElement(ElementRule)
	}
	el.SetAttr(AttrName, rule.Name)

	target := el.Find(ElementMappingTarget)
	if target == nil {
		return el
	}
	valueType := target.Find(ElementValueType)
	if valueType == nil {
		valueType = NewElement(ElementValueType)
		target.Append(valueType)
	}
	valueType.SetAttr(AttrNodeType, string(rule.NodeType))
	target.SetAttr(AttrURI, prefixes.Expand(rule.Target))
	return el
}

func mappingTarget(uri string, nodeType mapping.NodeType) *Element {
	return NewElement(ElementMappingTarget).
		SetAttr(AttrURI, uri).
		Append(NewElement(ElementValueType).SetAttr(AttrNodeType, string(nodeType)))
}

func concatInput(segments []Segment) *Element {
	concat := NewElement(ElementTransformInput).SetAttr(AttrFunction, FunctionConcat)
	for _, seg := range segments {
		if seg.Path {
			concat.Append(NewElement(ElementInput).SetAttr(AttrPath, seg.Value))
		} else {
			concat.Append(constantInput(FunctionConstant, seg.Value))
		}
	}
	return concat
}

func constantInput(function, value string) *Element {
	return NewElement(ElementTransformInput).
		SetAttr(AttrFunction, function).
		Append(NewElement(ElementParam).SetAttr(AttrName, AttrValue).SetAttr(AttrValue, value))
}
