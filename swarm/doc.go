// Copyright (c) swarmdfs Authors.
// Licensed under the MIT License.

/*
Package swarm 提供基于深度优先遍历的多 Worker 任务委派能力。

# 概述

从一个初始任务和 Worker 池中的第一个 Worker 出发，Swarm 执行任务、
读取结果中的后续任务（next tasks），通过 AssignmentPolicy 为每个后续任务
挑选空闲 Worker 并继续向下委派，直到没有后续任务、执行失败或无人可接。
同一次 Run 中，任何 (worker, task) 组合最多处理一次，遇到重复组合时
视为环路并跳过。

# 核心模型

  - Worker：可执行任务的单元，Run 返回 Outcome 或 error
  - Outcome：执行结果，NextTasks 为显式的后续任务列表
  - AssignmentPolicy：后续任务的分配策略（FirstAvailable、Capability）
  - Record / Trace：按先序遍历顺序记录每个被尝试的节点及其深度
  - Observer：结构化遍历事件的接收方（ZapObserver、MultiObserver）

# 主要能力

  - 显式栈遍历：不使用递归，深链任务不受调用栈深度限制
  - 惰性分配：兄弟任务的分配发生在前一个兄弟的整棵子树完成之后
  - 失败隔离：Worker 返回错误或 panic 仅终止当前分支
  - 可取消：每一步之前检查 context，取消时返回已积累的 Trace
  - 可观测：zap 日志事件、OpenTelemetry span、RateLimited 限流装饰器
*/
package swarm
