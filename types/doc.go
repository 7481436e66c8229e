// Copyright (c) swarmdfs Authors.
// Licensed under the MIT License.

/*
Package types 提供 swarmdfs 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 swarm、playbook、config、
tracestore 与 api 等上层模块提供统一的错误码与 context 约定。

# 核心类型

  - Error / ErrorCode  结构化错误体系，含 Retryable 与 Worker 标记
  - WithRunID / WithWorker / WithDepth  遍历过程中传递给 Worker 的上下文信息

# 主要能力

  - 错误工具链：WrapError / AsError / IsErrorCode / IsRetryable
  - Context 传播：TraceID、RunID、Worker、Depth
*/
package types
