package rule

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/rs/zerolog/log"

	"merx/internal/service/promotion/domain"
)

// CELEligibilityEvaluator 是 domain.EligibilityEvaluator 的 CEL 实现。
// 活动配置里的准入表达式（例如 "cartTotal >= 500.0 && lineCount > 1"）
// 在这里对购物车事实求值。这是一个典型的适配器：把第三方表达式引擎
// 适配到我们自己的领域接口上。
type CELEligibilityEvaluator struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program // 编译结果按表达式原文缓存
}

// NewCELEligibilityEvaluator 构建求值环境并声明表达式可见的变量。
func NewCELEligibilityEvaluator() (*CELEligibilityEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("cartTotal", cel.DoubleType),
		cel.Variable("totalQuantity", cel.DoubleType),
		cel.Variable("lineCount", cel.IntType),
	)
	if err != nil {
		return nil, err
	}
	return &CELEligibilityEvaluator{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Eligible 实现 domain.EligibilityEvaluator。
// 空表达式恒为符合条件；编译或求值失败按不符合条件处理（fail-closed），
// 坏表达式只会让活动静默失效，绝不会阻塞结账。
func (e *CELEligibilityEvaluator) Eligible(expr string, facts domain.CartFacts) bool {
	if expr == "" {
		return true
	}

	prg, err := e.program(expr)
	if err != nil {
		log.Warn().Err(err).Str("expr", expr).Msg("campaign eligibility expression failed to compile")
		return false
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"cartTotal":     facts.CartTotal,
		"totalQuantity": facts.TotalQuantity,
		"lineCount":     int64(facts.LineCount),
	})
	if err != nil {
		log.Warn().Err(err).Str("expr", expr).Msg("campaign eligibility expression failed to evaluate")
		return false
	}
	ok, isBool := out.Value().(bool)
	return isBool && ok
}

func (e *CELEligibilityEvaluator) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, hit := e.programs[expr]
	e.mu.RUnlock()
	if hit {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.programs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}
