// Copyright (c) swarmdfs Authors.
// Licensed under the MIT License.

/*
Package config 提供 swarmdfs 的配置加载与校验能力。

# 概述

配置按 默认值 → YAML 文件 → 环境变量 的优先级合并。环境变量名由前缀
（默认 SWARMDFS）与各级 env 标签以下划线拼接而成，例如
SWARMDFS_SWARM_POLICY、SWARMDFS_STORE_REDIS_ADDR。

# 核心类型

  - Config  完整配置：Swarm、Server、Store、Log、Metrics、Telemetry
  - Loader  Builder 模式的加载器，支持自定义前缀与校验器
  - DatabaseConfig  数据库配置，DSN() 生成 postgres / mysql / sqlite 连接串
*/
package config
