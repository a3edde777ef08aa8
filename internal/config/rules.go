package config

import "redmark/internal/domain"

// DefaultTagRules is the built-in keyword rule set, used when the config
// file does not define tag_rules. Rule order matters only for display;
// every matching rule contributes its name.
func DefaultTagRules() []domain.TagRule {
	return []domain.TagRule{
		{
			Name: "AI/LLM",
			Keywords: []string{
				"llm", "大模型", "gpt", "transformer", "预训练", "fine-tun", "微调",
				"强化学习", "reinforcement", "rl ", "rlhf", "grpo", "reasoning",
				"推理", "思维链", "chain-of-thought", "cot", "agent", "tool use",
				"论文", "paper", "arxiv", "distill", "蒸馏", "alignment", "对齐",
				"多模态", "multimodal", "embedding", "token", "attention",
				"deepseek", "qwen", "claude", "openai", "anthropic", "模型",
				"神经网络", "训练", "scaling", "benchmark", "nlp", "self-evolving",
				"reward", "prompt", "inference", "tta", "test-time", "agentic",
				"context engineering", "survey",
			},
		},
		{
			Name: "编程",
			Keywords: []string{
				"leetcode", "算法", "题单", "coding", "编程", "python", "代码",
				"开源", "github", "debug", "工程", "api", "框架", "cuda",
			},
		},
		{
			Name: "学术/PhD",
			Keywords: []string{
				"phd", "博士", "科研", "学术", "导师", "读博", "研究生",
				"人才计划", "icml", "neurips", "iclr",
			},
		},
		{
			Name: "美食",
			Keywords: []string{
				"美食", "餐厅", "好吃", "做饭", "菜谱", "咖啡", "日料",
				"火锅", "甜品", "一人食",
			},
		},
		{
			Name: "旅行",
			Keywords: []string{
				"旅行", "旅游", "攻略", "景点", "滑雪", "崇礼", "酒店",
				"雪场", "雪道",
			},
		},
		{
			Name: "体育",
			Keywords: []string{
				"球员", "比赛", "冬奥", "奥运", "短道", "足球", "篮球",
				"滑冰", "运动", "冰舞",
			},
		},
		{
			Name: "小说/书评",
			Keywords: []string{
				"小说", "书评", "女主", "男主", "jj", "晋江", "耽美",
				"推荐文", "书单", "章小蕙",
			},
		},
		{
			Name: "生活",
			Keywords: []string{
				"租房", "搬家", "理财", "省钱", "穿搭", "护肤", "健身",
				"攒钱", "正骨",
			},
		},
	}
}
